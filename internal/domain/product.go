package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

const DefaultMinStockLevel = 10

type StockStatus string

const (
	StatusInStock    StockStatus = "In Stock"
	StatusLowStock   StockStatus = "Low Stock"
	StatusOutOfStock StockStatus = "Out of Stock"
)

// Product is a catalog entry. Status is derived from Quantity and
// MinStockLevel on every read and is never persisted.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	MinStockLevel int             `json:"minStockLevel"`
}

func (p Product) Status() StockStatus {
	return StatusFor(p.Quantity, p.MinStockLevel)
}

func StatusFor(quantity, minStockLevel int) StockStatus {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= minStockLevel:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Value is price times quantity on hand.
func (p Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

func (p Product) Matches(term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term) ||
		strings.Contains(strings.ToLower(p.Category), term)
}

// ProductInput carries the mutable fields of a product. Pointer fields
// distinguish "not supplied" from zero.
type ProductInput struct {
	Name          string
	Description   string
	Category      string
	Price         *decimal.Decimal
	Quantity      *int
	MinStockLevel *int
}
