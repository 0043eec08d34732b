package usecase

import (
	"context"

	"stockroom/internal/domain"
	"stockroom/internal/dto"
	"stockroom/internal/product/service"
)

// recentProductsLimit is how many catalog entries the dashboard previews.
const recentProductsLimit = 5

type Service interface {
	List(ctx context.Context, f service.ListFilter) ([]domain.Product, error)
}

type DashboardUseCase struct {
	service Service
}

func NewDashboardUseCase(service Service) *DashboardUseCase {
	return &DashboardUseCase{service: service}
}

// Dashboard aggregates the catalog into the overview counters, the products
// that need restocking soon and a preview of the first catalog entries.
func (uc *DashboardUseCase) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	products, err := uc.service.List(ctx, service.ListFilter{})
	if err != nil {
		return nil, err
	}

	summary := domain.Summarize(products)

	lowStock := make([]domain.Product, 0)
	for _, p := range products {
		if p.Status() == domain.StatusLowStock {
			lowStock = append(lowStock, p)
		}
	}

	recent := products
	if len(recent) > recentProductsLimit {
		recent = recent[:recentProductsLimit]
	}

	return &dto.DashboardResponse{
		TotalProducts:    summary.TotalProducts,
		LowStockCount:    summary.LowStockCount,
		OutOfStockCount:  summary.OutOfStockCount,
		TotalValue:       summary.TotalValue,
		LowStockProducts: dto.NewProductDTOs(lowStock),
		RecentProducts:   dto.NewProductDTOs(recent),
	}, nil
}
