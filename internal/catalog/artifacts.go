package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"catsync/internal/audit"
	"catsync/internal/models"
	"catsync/pkg/checksum"
)

// ArtifactStore persists batches as batch_N.json files. The file body
// is exactly the payload later sent over the wire, so a stored batch
// can be replayed or audited byte for byte.
type ArtifactStore struct {
	dir string
}

func NewArtifactStore(dir string) *ArtifactStore {
	return &ArtifactStore{dir: dir}
}

// Dir returns the artifact directory.
func (s *ArtifactStore) Dir() string {
	return s.dir
}

// WriteBatch persists one batch and returns its path and sha256.
func (s *ArtifactStore) WriteBatch(batch models.Batch) (string, string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create batch dir: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")

	payload := models.BatchPayload{Products: batch.Products}
	if err := enc.Encode(&payload); err != nil {
		return "", "", fmt.Errorf("failed to encode batch %d: %w", batch.Index, err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("batch_%d.json", batch.Index))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, checksum.Sum(buf.Bytes()), nil
}

// WriteAll persists every batch in order, recording each artifact in
// the audit trail. Disk trouble is fatal, unlike a failed submission.
func (s *ArtifactStore) WriteAll(batches []models.Batch, recorder *audit.Recorder) ([]string, error) {
	paths := make([]string, 0, len(batches))

	for _, batch := range batches {
		path, sum, err := s.WriteBatch(batch)
		if err != nil {
			return paths, err
		}

		paths = append(paths, path)

		if err := recorder.Artifact(batch.Index, path, sum); err != nil {
			return paths, fmt.Errorf("failed to record artifact %s: %w", path, err)
		}
	}

	return paths, nil
}

// ReadBatch loads a stored batch file and returns its payload and the
// sha256 of the bytes on disk.
func (s *ArtifactStore) ReadBatch(path string) (*models.BatchPayload, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	var payload models.BatchPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, "", fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &payload, checksum.Sum(data), nil
}

// ListBatches returns the stored batch files in batch order. The sort
// is numeric, so batch_2 comes before batch_10.
func (s *ArtifactStore) ListBatches() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "batch_*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}

	indexed := make([]string, 0, len(matches))
	for _, path := range matches {
		if BatchIndex(path) > 0 {
			indexed = append(indexed, path)
		}
	}

	sort.Slice(indexed, func(i, j int) bool {
		return BatchIndex(indexed[i]) < BatchIndex(indexed[j])
	})

	return indexed, nil
}

// BatchIndex extracts N from a batch_N.json path, or 0 if the name
// does not fit the pattern.
func BatchIndex(path string) int {
	var n int
	if _, err := fmt.Sscanf(filepath.Base(path), "batch_%d.json", &n); err != nil {
		return 0
	}

	return n
}
