// Package catalog loads the raw product export, normalizes every row
// into an API-ready product, and partitions the result into batches.
package catalog

import (
	"fmt"
	"io"
	"strings"

	"catsync/internal/audit"
	"catsync/internal/logger"
	"catsync/internal/models"
	"catsync/internal/normalizer"
)

// Processor runs the load-and-normalize stage. Every data row yields a
// product; fields that resist conversion fall back to their documented
// defaults and leave an anomaly in the audit trail.
type Processor struct {
	loader    *Loader
	codeWidth int
	recorder  *audit.Recorder
	logger    *logger.Logger
}

// NewProcessor creates a processor. codeWidth zero-pads internal codes
// when positive.
func NewProcessor(loader *Loader, codeWidth int, recorder *audit.Recorder, log *logger.Logger) *Processor {
	return &Processor{
		loader:    loader,
		codeWidth: codeWidth,
		recorder:  recorder,
		logger:    log,
	}
}

// Result summarizes one load-and-normalize pass.
type Result struct {
	Products  []models.Product
	Rows      int
	Anomalies int
}

// LoadAndNormalize parses the export and converts every row.
func (p *Processor) LoadAndNormalize(r io.Reader) (*Result, error) {
	items, issues, err := p.loader.Load(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load export: %w", err)
	}

	result := &Result{Rows: len(items)}

	for _, issue := range issues {
		result.Anomalies++
		p.recordAnomaly(issue.Row, "row", "", issue.Message)
	}

	result.Products = make([]models.Product, 0, len(items))

	for _, item := range items {
		product, anomalies := p.normalizeItem(item)
		result.Products = append(result.Products, product)

		for _, a := range anomalies {
			result.Anomalies++
			p.recordAnomaly(item.Row, a.field, a.value, a.message)
		}
	}

	p.logger.Info(fmt.Sprintf("Normalized %d rows into %d products (%d anomalies)",
		result.Rows, len(result.Products), result.Anomalies))

	return result, nil
}

type fieldAnomaly struct {
	field   string
	value   string
	message string
}

// normalizeItem converts one raw row. It never fails: bad fields take
// their defaults and come back as anomalies.
func (p *Processor) normalizeItem(item models.RawItem) (models.Product, []fieldAnomaly) {
	var anomalies []fieldAnomaly

	flag := func(field, value, message string) {
		anomalies = append(anomalies, fieldAnomaly{field: field, value: value, message: message})
	}

	measures := normalizer.ParseMeasures(item.Name)

	barcodes := normalizer.FormatBarcode(item.Barcode)
	if len(barcodes) == 0 && strings.TrimSpace(item.Barcode) != "" {
		flag("barcode", item.Barcode, "no valid EAN code")
	}

	price, ok := normalizer.ParsePrice(item.RegularPrice)
	if !ok {
		flag("price", item.RegularPrice, "not a usable price, defaulted to 0")
	}

	promoPrice, ok := normalizer.ParsePromoPrice(item.PromoPrice)
	if !ok {
		flag("promo_price", item.PromoPrice, "not a usable promo price, dropped")
	}

	stock, ok := normalizer.ParseStock(item.Stock)
	if !ok {
		flag("stock", item.Stock, "not a usable stock count, defaulted to 0")
	}

	internalCode := normalizer.FormatInternalCode(item.InternalCode, p.codeWidth)
	if internalCode == "" {
		flag("internal_code", item.InternalCode, "empty after normalization")
	}

	promoStart, promoEnd, ok := normalizer.ParsePromoDates(item.PromoDates)
	if !ok {
		flag("promo_dates", item.PromoDates, "unrecognized promotion date, dropped")
	}

	return models.Product{
		InternalCode: internalCode,
		Name:         item.Name,
		UnitType:     normalizer.InferUnitType(item.Name),
		Price:        price,
		Visible:      normalizer.ParseVisible(item.Active),
		Stock:        stock,
		Barcodes:     barcodes,
		PromoPrice:   promoPrice,
		Weight:       measures.Weight,
		Length:       measures.Length,
		Width:        measures.Width,
		Height:       measures.Height,
		PromoEndAt:   promoEnd,
		PromoStartAt: promoStart,
	}, anomalies
}

func (p *Processor) recordAnomaly(row int, field, value, message string) {
	if err := p.recorder.Anomaly(row, field, value, message); err != nil {
		p.logger.Error(fmt.Sprintf("Row %d: failed to append audit entry: %v", row, err))
	}
}
