package domain

import "github.com/shopspring/decimal"

type Summary struct {
	TotalProducts   int
	LowStockCount   int
	OutOfStockCount int
	TotalValue      decimal.Decimal
}

func Summarize(products []Product) Summary {
	s := Summary{TotalProducts: len(products), TotalValue: decimal.Zero}
	for _, p := range products {
		switch p.Status() {
		case StatusLowStock:
			s.LowStockCount++
		case StatusOutOfStock:
			s.OutOfStockCount++
		}
		s.TotalValue = s.TotalValue.Add(p.Value())
	}
	return s
}
