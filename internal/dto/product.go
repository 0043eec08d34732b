package dto

import (
	"github.com/shopspring/decimal"

	"stockroom/internal/domain"
)

// ProductRequest is the body of create and update calls. Pointer fields
// let the catalog tell a missing value from zero.
type ProductRequest struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Category      string           `json:"category"`
	Price         *decimal.Decimal `json:"price"`
	Quantity      *int             `json:"quantity"`
	MinStockLevel *int             `json:"minStockLevel"`
}

func (r ProductRequest) ToInput() domain.ProductInput {
	return domain.ProductInput{
		Name:          r.Name,
		Description:   r.Description,
		Category:      r.Category,
		Price:         r.Price,
		Quantity:      r.Quantity,
		MinStockLevel: r.MinStockLevel,
	}
}

type ProductDTO struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	MinStockLevel int             `json:"minStockLevel"`
	Status        string          `json:"status"`
}

func NewProductDTO(p domain.Product) ProductDTO {
	return ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Price:         p.Price,
		Quantity:      p.Quantity,
		MinStockLevel: p.MinStockLevel,
		Status:        string(p.Status()),
	}
}

func NewProductDTOs(products []domain.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductDTO(p))
	}
	return out
}

type ProductResponse struct {
	TraceID string     `json:"traceId"`
	Product ProductDTO `json:"product"`
}

type ProductListResponse struct {
	TraceID  string       `json:"traceId"`
	Count    int          `json:"count"`
	Products []ProductDTO `json:"products"`
}

type CategoriesResponse struct {
	TraceID    string   `json:"traceId"`
	Categories []string `json:"categories"`
}
