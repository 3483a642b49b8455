package models

// RawItem is one data row of the catalog export, untouched. Field values
// keep whatever the ERP wrote, including empty cells and spreadsheet
// artifacts; normalization happens downstream.
type RawItem struct {
	// Row is the 1-based data row number in the source file, used to
	// locate anomalies. The header row is not counted.
	Row          int
	Name         string
	Barcode      string
	RegularPrice string
	PromoPrice   string
	Stock        string
	InternalCode string
	PromoDates   string
	Active       string
}
