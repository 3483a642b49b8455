package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"catsync/internal/audit"
	"catsync/internal/models"
	"catsync/pkg/checksum"
)

func TestArtifactStore_WriteAndReadBatch(t *testing.T) {
	store := NewArtifactStore(filepath.Join(t.TempDir(), "batches"))

	promo := 15.9
	batch := models.Batch{
		Index: 1,
		Products: []models.Product{
			{
				InternalCode: "123",
				Name:         "Açúcar Cristal 1KG",
				UnitType:     models.UnitTypeUnit,
				Price:        5.49,
				Visible:      true,
				Stock:        10,
				Barcodes:     []string{"7891000100103"},
				PromoPrice:   &promo,
			},
		},
	}

	path, sum, err := store.WriteBatch(batch)
	if err != nil {
		t.Fatalf("WriteBatch failed: %v", err)
	}

	if filepath.Base(path) != "batch_1.json" {
		t.Errorf("Unexpected artifact name: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected artifact on disk: %v", err)
	}

	if checksum.Sum(data) != sum {
		t.Error("Returned checksum does not match file bytes")
	}

	payload, readSum, err := store.ReadBatch(path)
	if err != nil {
		t.Fatalf("ReadBatch failed: %v", err)
	}

	if readSum != sum {
		t.Error("ReadBatch checksum differs from write-time checksum")
	}

	if len(payload.Products) != 1 {
		t.Fatalf("Expected 1 product, got %d", len(payload.Products))
	}

	got := payload.Products[0]
	if got.Name != "Açúcar Cristal 1KG" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.PromoPrice == nil || *got.PromoPrice != 15.9 {
		t.Errorf("Promo price = %v, want 15.9", got.PromoPrice)
	}
}

func TestArtifactStore_WireShape(t *testing.T) {
	store := NewArtifactStore(t.TempDir())

	batch := models.Batch{
		Index: 1,
		Products: []models.Product{
			{
				InternalCode: "9",
				Name:         "Café Torrado",
				UnitType:     models.UnitTypeKilogram,
				Price:        32.90,
				Visible:      true,
				Barcodes:     []string{},
			},
		},
	}

	path, _, err := store.WriteBatch(batch)
	if err != nil {
		t.Fatalf("WriteBatch failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read artifact: %v", err)
	}

	body := string(data)

	// Absent optional fields are explicit nulls, not omitted keys.
	for _, key := range []string{`"promo_price": null`, `"weight": null`, `"promo_end_at": null`} {
		if !strings.Contains(body, key) {
			t.Errorf("Expected %s in artifact", key)
		}
	}

	if !strings.Contains(body, `"barcodes": []`) {
		t.Error("Expected empty barcodes to serialize as []")
	}

	// Accented text stays literal.
	if !strings.Contains(body, "Café Torrado") {
		t.Error("Expected accented name preserved verbatim")
	}

	// Field order follows the API schema: internal_code leads.
	if strings.Index(body, `"internal_code"`) > strings.Index(body, `"name"`) {
		t.Error("Expected internal_code before name")
	}
}

func TestArtifactStore_WriteAll(t *testing.T) {
	store := NewArtifactStore(t.TempDir())
	trail := audit.NewMemoryTrail()
	recorder := audit.NewRecorder(trail)

	batches := CreateBatches(makeProducts(5), 2)

	paths, err := store.WriteAll(batches, recorder)
	if err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	if len(paths) != 3 {
		t.Fatalf("Expected 3 artifacts, got %d", len(paths))
	}

	entries := trail.ByKind(audit.KindArtifact)
	if len(entries) != 3 {
		t.Fatalf("Expected 3 artifact entries, got %d", len(entries))
	}

	for i, e := range entries {
		if e.BatchIndex != i+1 {
			t.Errorf("Entry %d has batch index %d", i, e.BatchIndex)
		}
		if e.Checksum == "" || e.Path == "" {
			t.Errorf("Entry %d missing path or checksum: %+v", i, e)
		}

		data, err := os.ReadFile(e.Path)
		if err != nil {
			t.Fatalf("Artifact %s unreadable: %v", e.Path, err)
		}
		if checksum.Sum(data) != e.Checksum {
			t.Errorf("Entry %d checksum does not match disk", i)
		}
	}
}

func TestArtifactStore_ListBatches(t *testing.T) {
	store := NewArtifactStore(t.TempDir())

	for _, index := range []int{10, 1, 2} {
		if _, _, err := store.WriteBatch(models.Batch{Index: index, Products: makeProducts(1)}); err != nil {
			t.Fatalf("WriteBatch failed: %v", err)
		}
	}

	// Unrelated files are ignored.
	if err := os.WriteFile(filepath.Join(store.Dir(), "notes.json"), []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to write decoy: %v", err)
	}

	paths, err := store.ListBatches()
	if err != nil {
		t.Fatalf("ListBatches failed: %v", err)
	}

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}

	want := []string{"batch_1.json", "batch_2.json", "batch_10.json"}
	if len(names) != len(want) {
		t.Fatalf("Expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Position %d = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestArtifactStore_ReadBatch_Missing(t *testing.T) {
	store := NewArtifactStore(t.TempDir())

	if _, _, err := store.ReadBatch(filepath.Join(store.Dir(), "batch_1.json")); err == nil {
		t.Fatal("Expected error for missing artifact")
	}
}
