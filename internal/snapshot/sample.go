package snapshot

import (
	"github.com/shopspring/decimal"

	"stockroom/internal/domain"
)

// SampleProducts is the catalog served before any snapshot has been written.
// IDs are fixed so that the sample set is addressable across restarts.
func SampleProducts() []domain.Product {
	return []domain.Product{
		{
			ID:            "5f0c6a8e-3d4b-4c1e-9a57-0e6f1b2c3d01",
			Name:          "Espresso",
			Description:   "Strong black coffee",
			Category:      "Beverages",
			Price:         decimal.RequireFromString("3.50"),
			Quantity:      42,
			MinStockLevel: domain.DefaultMinStockLevel,
		},
		{
			ID:            "5f0c6a8e-3d4b-4c1e-9a57-0e6f1b2c3d02",
			Name:          "Cappuccino",
			Description:   "Coffee with steamed milk",
			Category:      "Beverages",
			Price:         decimal.RequireFromString("4.25"),
			Quantity:      8,
			MinStockLevel: domain.DefaultMinStockLevel,
		},
		{
			ID:            "5f0c6a8e-3d4b-4c1e-9a57-0e6f1b2c3d03",
			Name:          "Blueberry Muffin",
			Description:   "Fresh baked muffin with blueberries",
			Category:      "Bakery",
			Price:         decimal.RequireFromString("2.75"),
			Quantity:      5,
			MinStockLevel: 8,
		},
		{
			ID:            "5f0c6a8e-3d4b-4c1e-9a57-0e6f1b2c3d04",
			Name:          "Chocolate Cake",
			Description:   "Rich chocolate cake",
			Category:      "Desserts",
			Price:         decimal.RequireFromString("5.50"),
			Quantity:      15,
			MinStockLevel: domain.DefaultMinStockLevel,
		},
	}
}
