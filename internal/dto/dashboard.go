package dto

import "github.com/shopspring/decimal"

type DashboardResponse struct {
	TraceID          string          `json:"traceId"`
	TotalProducts    int             `json:"totalProducts"`
	LowStockCount    int             `json:"lowStockCount"`
	OutOfStockCount  int             `json:"outOfStockCount"`
	TotalValue       decimal.Decimal `json:"totalValue"`
	LowStockProducts []ProductDTO    `json:"lowStockProducts"`
	RecentProducts   []ProductDTO    `json:"recentProducts"`
}
