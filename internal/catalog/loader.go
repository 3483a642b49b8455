package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"catsync/internal/models"
)

// Loader errors.
var (
	ErrEmptyExport   = errors.New("export has no header row")
	ErrMissingColumn = errors.New("required column missing")
)

// Column headers the export must carry. These are the ERP's names,
// matched exactly after trimming.
const (
	ColName       = "Nome"
	ColBarcode    = "Código de barras"
	ColPrice      = "Preço regular"
	ColPromoPrice = "Promocao"
	ColStock      = "estoque"
	ColCode       = "Código interno"
	ColPromoDates = "Data termino promocao"
	ColActive     = "ativo"
)

var requiredColumns = []string{
	ColName, ColBarcode, ColPrice, ColPromoPrice,
	ColStock, ColCode, ColPromoDates, ColActive,
}

// LoadIssue describes a structural oddity in the export, tied to a
// 1-based data row.
type LoadIssue struct {
	Row     int
	Message string
}

// Loader parses the semicolon-separated export into raw items.
type Loader struct {
	separator rune
}

func NewLoader(separator rune) *Loader {
	return &Loader{separator: separator}
}

// Load reads the export. Ragged rows are padded or truncated to the
// header width and reported as issues; blank lines are skipped. A
// missing required column is fatal.
func (l *Loader) Load(r io.Reader) ([]models.RawItem, []LoadIssue, error) {
	// Exports from Windows tooling often carry a UTF-8 BOM.
	decoded := unicode.UTF8BOM.NewDecoder().Reader(r)

	reader := csv.NewReader(decoded)
	reader.Comma = l.separator
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, ErrEmptyExport
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	var items []models.RawItem

	var issues []LoadIssue

	row := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row %d: %w", row+1, err)
		}

		if isBlank(record) {
			continue
		}

		row++

		if len(record) != len(header) {
			issues = append(issues, LoadIssue{
				Row:     row,
				Message: fmt.Sprintf("row has %d of %d columns", len(record), len(header)),
			})

			record = fitToWidth(record, len(header))
		}

		items = append(items, models.RawItem{
			Row:          row,
			Name:         record[columns[ColName]],
			Barcode:      record[columns[ColBarcode]],
			RegularPrice: record[columns[ColPrice]],
			PromoPrice:   record[columns[ColPromoPrice]],
			Stock:        record[columns[ColStock]],
			InternalCode: record[columns[ColCode]],
			PromoDates:   record[columns[ColPromoDates]],
			Active:       record[columns[ColActive]],
		})
	}

	return items, issues, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}

	return true
}

func fitToWidth(record []string, width int) []string {
	if len(record) > width {
		return record[:width]
	}

	padded := make([]string, width)
	copy(padded, record)

	return padded
}
