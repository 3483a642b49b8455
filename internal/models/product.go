package models

// UnitType classifies how a product is sold.
type UnitType string

const (
	// UnitTypeUnit marks products sold by piece or package.
	UnitTypeUnit UnitType = "UNI"
	// UnitTypeKilogram marks products weighed at the counter.
	UnitTypeKilogram UnitType = "KG"
)

// Product is the canonical record the destination API accepts. Field names
// and order follow the documented store-products schema; optional fields
// are pointers so absent values serialize as explicit nulls.
type Product struct {
	InternalCode string   `json:"internal_code"`
	Name         string   `json:"name"`
	UnitType     UnitType `json:"unit_type"`
	Price        float64  `json:"price"`
	Visible      bool     `json:"visible"`
	Stock        float64  `json:"stock"`
	Barcodes     []string `json:"barcodes"`
	PromoPrice   *float64 `json:"promo_price"`
	Weight       *float64 `json:"weight"`
	Length       *float64 `json:"length"`
	Width        *float64 `json:"width"`
	Height       *float64 `json:"height"`
	PromoEndAt   *string  `json:"promo_end_at"`
	PromoStartAt *string  `json:"promo_start_at"`
}

// HasPromotion reports whether the product carries an active promo price.
func (p Product) HasPromotion() bool {
	return p.PromoPrice != nil
}

// BatchPayload is the wire envelope the destination API expects and the
// exact content of a persisted batch artifact.
type BatchPayload struct {
	Products []Product `json:"products"`
}
