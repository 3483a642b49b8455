package catalog

import (
	"errors"
	"strings"
	"testing"
)

const exportHeader = "Nome;Código de barras;Preço regular;Promocao;estoque;Código interno;Data termino promocao;ativo"

func TestLoader_Load(t *testing.T) {
	input := exportHeader + "\n" +
		"Arroz Branco 5KG;7891000100103;19,90;15,90;100;123;25/12/2024;1\n" +
		"Feijão Preto 1KG;7891234567895;8,50;;50;124;;1\n"

	loader := NewLoader(';')

	items, issues, err := loader.Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(issues) != 0 {
		t.Errorf("Expected no issues, got %+v", issues)
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.Row != 1 {
		t.Errorf("Expected row 1, got %d", first.Row)
	}
	if first.Name != "Arroz Branco 5KG" {
		t.Errorf("Unexpected name: %q", first.Name)
	}
	if first.Barcode != "7891000100103" {
		t.Errorf("Unexpected barcode: %q", first.Barcode)
	}
	if first.RegularPrice != "19,90" {
		t.Errorf("Unexpected price: %q", first.RegularPrice)
	}
	if first.PromoDates != "25/12/2024" {
		t.Errorf("Unexpected promo dates: %q", first.PromoDates)
	}

	second := items[1]
	if second.Row != 2 {
		t.Errorf("Expected row 2, got %d", second.Row)
	}
	if second.PromoPrice != "" {
		t.Errorf("Expected empty promo price, got %q", second.PromoPrice)
	}
}

func TestLoader_Load_ColumnOrderIndependent(t *testing.T) {
	input := "ativo;Código interno;Nome;Código de barras;Preço regular;Promocao;estoque;Data termino promocao\n" +
		"1;77;Leite Integral 1L;7891000100103;4,99;;20;\n"

	loader := NewLoader(';')

	items, _, err := loader.Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if items[0].Name != "Leite Integral 1L" {
		t.Errorf("Unexpected name: %q", items[0].Name)
	}
	if items[0].InternalCode != "77" {
		t.Errorf("Unexpected internal code: %q", items[0].InternalCode)
	}
	if items[0].Active != "1" {
		t.Errorf("Unexpected active flag: %q", items[0].Active)
	}
}

func TestLoader_Load_StripsBOM(t *testing.T) {
	input := "\xEF\xBB\xBF" + exportHeader + "\n" +
		"Arroz;;1,00;;1;1;;1\n"

	loader := NewLoader(';')

	items, _, err := loader.Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load failed on BOM input: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
}

func TestLoader_Load_MissingColumn(t *testing.T) {
	input := "Nome;Código de barras;Preço regular;Promocao;estoque;Código interno;Data termino promocao\n" +
		"Arroz;;1,00;;1;1;\n"

	loader := NewLoader(';')

	_, _, err := loader.Load(strings.NewReader(input))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("Expected ErrMissingColumn, got %v", err)
	}

	if !strings.Contains(err.Error(), ColActive) {
		t.Errorf("Expected error to name the missing column, got %q", err.Error())
	}
}

func TestLoader_Load_Empty(t *testing.T) {
	loader := NewLoader(';')

	_, _, err := loader.Load(strings.NewReader(""))
	if !errors.Is(err, ErrEmptyExport) {
		t.Fatalf("Expected ErrEmptyExport, got %v", err)
	}
}

func TestLoader_Load_ShortRowPadded(t *testing.T) {
	input := exportHeader + "\n" +
		"Arroz;7891000100103;19,90\n"

	loader := NewLoader(';')

	items, issues, err := loader.Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("Expected the short row to survive, got %d items", len(items))
	}

	if items[0].Active != "" {
		t.Errorf("Expected padded active field, got %q", items[0].Active)
	}

	if len(issues) != 1 || issues[0].Row != 1 {
		t.Fatalf("Expected one issue on row 1, got %+v", issues)
	}

	if !strings.Contains(issues[0].Message, "3 of 8") {
		t.Errorf("Unexpected issue message: %q", issues[0].Message)
	}
}

func TestLoader_Load_WideRowTruncated(t *testing.T) {
	input := exportHeader + "\n" +
		"Arroz;;1,00;;1;1;;1;extra;fields\n"

	loader := NewLoader(';')

	items, issues, err := loader.Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}

	if items[0].Active != "1" {
		t.Errorf("Expected active '1' after truncation, got %q", items[0].Active)
	}

	if len(issues) != 1 {
		t.Errorf("Expected one issue for the wide row, got %+v", issues)
	}
}

func TestLoader_Load_SkipsBlankRows(t *testing.T) {
	input := exportHeader + "\n" +
		"Arroz;;1,00;;1;1;;1\n" +
		";;;;;;;\n" +
		"\n" +
		"Feijão;;2,00;;1;2;;1\n"

	loader := NewLoader(';')

	items, issues, err := loader.Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(issues) != 0 {
		t.Errorf("Expected no issues, got %+v", issues)
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}

	// Blank lines do not consume row numbers.
	if items[1].Row != 2 {
		t.Errorf("Expected second item on row 2, got %d", items[1].Row)
	}
}

func TestLoader_Load_QuotedSeparator(t *testing.T) {
	input := exportHeader + "\n" +
		"\"Kit Festa; Completo\";;49,90;;5;9;;1\n"

	loader := NewLoader(';')

	items, _, err := loader.Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if items[0].Name != "Kit Festa; Completo" {
		t.Errorf("Quoted separator mishandled: %q", items[0].Name)
	}
}
