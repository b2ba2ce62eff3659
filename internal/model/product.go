package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// VariantType tags what a variant modifies.
type VariantType string

const (
	VariantSize  VariantType = "size"
	VariantExtra VariantType = "extra"
)

// Variant is a product modifier such as a size or an extra shot.
type Variant struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	PriceModifier decimal.Decimal `json:"priceModifier"`
	Type          VariantType     `json:"type"`
}

// Product represents an item in the shop catalogue.
type Product struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Category    string          `json:"category" db:"category_id"`
	Variants    []Variant       `json:"variants,omitempty" db:"variants"`
	IsActive    bool            `json:"isActive" db:"is_active"`
	Barcode     *string         `json:"barcode,omitempty" db:"barcode"`
	Stock       *int            `json:"stock,omitempty" db:"stock"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// Variant returns the variant with the given id.
func (p *Product) Variant(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// moneyPlaces is the scale of stored prices and drawer amounts.
const moneyPlaces = 2

// withinPlaces reports whether d survives rounding to places unchanged, so the
// database stores exactly the value that was validated.
func withinPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Round(places))
}

// Validate checks the product is well formed before it enters the catalogue.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidProduct)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	if !withinPlaces(p.Price, moneyPlaces) {
		return fmt.Errorf("%w: price has more than %d decimal places", ErrInvalidProduct, moneyPlaces)
	}
	if p.Stock != nil && *p.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidProduct)
	}
	if p.Barcode != nil && strings.TrimSpace(*p.Barcode) == "" {
		return fmt.Errorf("%w: barcode must not be blank", ErrInvalidProduct)
	}

	seen := make(map[string]struct{}, len(p.Variants))
	for _, v := range p.Variants {
		if v.ID == "" || v.Name == "" {
			return fmt.Errorf("%w: variant id and name are required", ErrInvalidProduct)
		}
		if v.Type != VariantSize && v.Type != VariantExtra {
			return fmt.Errorf("%w: variant %s has unknown type %q", ErrInvalidProduct, v.ID, v.Type)
		}
		if !withinPlaces(v.PriceModifier, moneyPlaces) {
			return fmt.Errorf("%w: variant %s modifier has more than %d decimal places", ErrInvalidProduct, v.ID, moneyPlaces)
		}
		if _, dup := seen[v.ID]; dup {
			return fmt.Errorf("%w: duplicate variant id %s", ErrInvalidProduct, v.ID)
		}
		seen[v.ID] = struct{}{}
	}

	return nil
}

// Category groups products on the till.
type Category struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	SortOrder   int    `json:"sortOrder" db:"sort_order"`
	IsActive    bool   `json:"isActive" db:"is_active"`
}

// ProductFilter narrows catalogue listings.
type ProductFilter struct {
	Category        string
	Search          string
	IncludeInactive bool
	Limit           int
	Offset          int
}
