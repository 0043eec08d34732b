package stock

import (
	"go.uber.org/zap"

	"stockroom/internal/inventory"
	"stockroom/internal/pkg/clock"
	"stockroom/internal/stock/controller"
	"stockroom/internal/stock/service"
)

func NewModule(store *inventory.Store, clk clock.Clock, recorder service.Recorder, logger *zap.Logger) *controller.Controller {
	ledger := service.NewLedgerService(store, clk, recorder, logger)
	return controller.NewController(ledger, clk, logger)
}
