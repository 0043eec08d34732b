package product

import (
	"go.uber.org/zap"

	"stockroom/internal/inventory"
	"stockroom/internal/product/controller"
	"stockroom/internal/product/repository"
	"stockroom/internal/product/service"
	"stockroom/internal/product/usecase"
)

func NewModule(store *inventory.Store, logger *zap.Logger) *controller.Controller {
	repo := repository.NewInventoryRepository(store)
	svc := service.NewService(repo, logger)
	uc := usecase.NewDashboardUseCase(svc)
	return controller.NewController(svc, uc, logger)
}
