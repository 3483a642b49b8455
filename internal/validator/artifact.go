// Package validator checks stored batch artifacts before they are
// replayed against the API.
package validator

import (
	"fmt"
	"regexp"

	"catsync/internal/models"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Product int
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
	Stats    ValidationStats
	IsValid  bool
}

// ValidationStats contains validation statistics.
type ValidationStats struct {
	TotalProducts   int
	ValidProducts   int
	InvalidProducts int
}

var (
	isoDayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	digitsPattern = regexp.MustCompile(`^\d+$`)
)

// Validator checks batch payloads against the store API schema.
type Validator struct{}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateBatch validates every product in a batch payload.
func (v *Validator) ValidateBatch(payload *models.BatchPayload) *ValidationResult {
	result := &ValidationResult{
		IsValid:  true,
		Errors:   []ValidationError{},
		Warnings: []string{},
		Stats:    ValidationStats{},
	}

	if len(payload.Products) == 0 {
		result.IsValid = false
		result.Errors = append(result.Errors, ValidationError{
			Message: "batch has no products",
		})

		return result
	}

	seenCodes := make(map[string]int)

	for i, product := range payload.Products {
		index := i + 1
		result.Stats.TotalProducts++

		errs, warnings := v.validateProduct(product, index)
		result.Warnings = append(result.Warnings, warnings...)

		if len(errs) > 0 {
			result.IsValid = false
			result.Stats.InvalidProducts++
			result.Errors = append(result.Errors, errs...)
		} else {
			result.Stats.ValidProducts++
		}

		if product.InternalCode != "" {
			if first, dup := seenCodes[product.InternalCode]; dup {
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"internal code %s appears on products %d and %d", product.InternalCode, first, index))
			} else {
				seenCodes[product.InternalCode] = index
			}
		}
	}

	return result
}

// validateProduct validates a single product.
func (v *Validator) validateProduct(p models.Product, index int) ([]ValidationError, []string) {
	var errs []ValidationError

	var warnings []string

	fail := func(field, value, message string) {
		errs = append(errs, ValidationError{
			Product: index,
			Field:   field,
			Value:   value,
			Message: message,
		})
	}

	if p.InternalCode == "" {
		fail("internal_code", "", "internal code is empty")
	}

	if p.Name == "" {
		fail("name", "", "name is empty")
	}

	if p.UnitType != models.UnitTypeUnit && p.UnitType != models.UnitTypeKilogram {
		fail("unit_type", string(p.UnitType), "unit type must be UNI or KG")
	}

	if p.Price < 0 {
		fail("price", fmt.Sprintf("%v", p.Price), "price is negative")
	}

	if p.Stock < 0 {
		fail("stock", fmt.Sprintf("%v", p.Stock), "stock is negative")
	}

	if p.Barcodes == nil {
		fail("barcodes", "", "barcodes list is missing, expected at least []")
	}

	for _, code := range p.Barcodes {
		if !digitsPattern.MatchString(code) || (len(code) != 8 && len(code) != 13) {
			fail("barcodes", code, "barcode is not an 8 or 13 digit EAN")
		}
	}

	if p.PromoPrice != nil {
		if *p.PromoPrice <= 0 {
			fail("promo_price", fmt.Sprintf("%v", *p.PromoPrice), "promo price must be positive when set")
		} else if *p.PromoPrice >= p.Price && p.Price > 0 {
			warnings = append(warnings, fmt.Sprintf(
				"product %d: promo price %v is not below regular price %v", index, *p.PromoPrice, p.Price))
		}
	}

	for _, dim := range []struct {
		field string
		value *float64
	}{
		{"weight", p.Weight},
		{"length", p.Length},
		{"width", p.Width},
		{"height", p.Height},
	} {
		if dim.value != nil && *dim.value <= 0 {
			fail(dim.field, fmt.Sprintf("%v", *dim.value), dim.field+" must be positive when set")
		}
	}

	errs = append(errs, v.validatePromoDates(p, index)...)

	return errs, warnings
}

func (v *Validator) validatePromoDates(p models.Product, index int) []ValidationError {
	var errs []ValidationError

	check := func(field string, value *string) bool {
		if value == nil {
			return false
		}
		if !isoDayPattern.MatchString(*value) {
			errs = append(errs, ValidationError{
				Product: index,
				Field:   field,
				Value:   *value,
				Message: field + " is not an ISO date",
			})

			return false
		}

		return true
	}

	startOk := check("promo_start_at", p.PromoStartAt)
	endOk := check("promo_end_at", p.PromoEndAt)

	// ISO dates order lexicographically.
	if startOk && endOk && *p.PromoStartAt > *p.PromoEndAt {
		errs = append(errs, ValidationError{
			Product: index,
			Field:   "promo_start_at",
			Value:   *p.PromoStartAt,
			Message: "promotion starts after it ends",
		})
	}

	return errs
}

// String returns string representation of validation result.
func (r *ValidationResult) String() string {
	status := "✅ VALID"
	if !r.IsValid {
		status = "❌ INVALID"
	}

	return fmt.Sprintf(
		"%s | Products: %d | Valid: %d | Invalid: %d | Warnings: %d",
		status,
		r.Stats.TotalProducts,
		r.Stats.ValidProducts,
		r.Stats.InvalidProducts,
		len(r.Warnings),
	)
}

// PrintErrors prints validation errors in readable format.
func (r *ValidationResult) PrintErrors() {
	if len(r.Errors) == 0 {
		return
	}

	fmt.Println("❌ Validation Errors:")

	for _, err := range r.Errors {
		if err.Product > 0 {
			fmt.Printf("  Product %d", err.Product)

			if err.Field != "" {
				fmt.Printf(" [%s]", err.Field)
			}

			fmt.Printf(": %s\n", err.Message)

			if err.Value != "" {
				fmt.Printf("    Found: %q\n", err.Value)
			}
		} else {
			fmt.Printf("  %s\n", err.Message)
		}
	}
}

// PrintWarnings prints validation warnings.
func (r *ValidationResult) PrintWarnings() {
	if len(r.Warnings) == 0 {
		return
	}

	fmt.Println("⚠️  Validation Warnings:")

	for _, warn := range r.Warnings {
		fmt.Printf("  %s\n", warn)
	}
}
