package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"stockroom/internal/domain"
	"stockroom/internal/dto"
	apperrors "stockroom/internal/errors"
	"stockroom/internal/export"
	"stockroom/internal/pkg/clock"
	"stockroom/internal/pkg/respond"
	"stockroom/internal/pkg/trace"
	"stockroom/internal/stock/service"
)

type Ledger interface {
	Apply(ctx context.Context, productID string, txType domain.TransactionType, magnitude int, notes string) (*domain.Transaction, error)
	History(ctx context.Context, f service.HistoryFilter) ([]domain.Transaction, error)
}

type Controller struct {
	ledger Ledger
	clock  clock.Clock
	logger *zap.Logger
}

func NewController(ledger Ledger, clk clock.Clock, logger *zap.Logger) *Controller {
	return &Controller{
		ledger: ledger,
		clock:  clk,
		logger: logger,
	}
}

func (c *Controller) HandleApply(w http.ResponseWriter, r *http.Request) {
	traceID := trace.FromContext(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.StockTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		respond.ValidationError(w, traceID, "invalid JSON body", c.logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	txType := domain.TransactionType(strings.ToLower(strings.TrimSpace(req.Type)))
	tx, err := c.ledger.Apply(r.Context(), strings.TrimSpace(req.ProductID), txType, req.Quantity, req.Notes)
	if err != nil {
		logger.Warn("stock transaction failed", zap.String("productId", req.ProductID), zap.Error(err))
		respond.Error(w, traceID, err, c.logger)
		return
	}

	respond.JSON(w, http.StatusCreated, dto.StockTransactionResponse{
		TraceID:     traceID,
		Transaction: dto.NewTransactionDTO(*tx),
		Timestamp:   c.clock.Now().UTC(),
	}, c.logger)
}

func (c *Controller) HandleHistory(w http.ResponseWriter, r *http.Request) {
	traceID := trace.FromContext(r.Context())

	txs, err := c.ledger.History(r.Context(), historyFilter(r))
	if err != nil {
		respond.Error(w, traceID, err, c.logger)
		return
	}

	respond.JSON(w, http.StatusOK, dto.TransactionHistoryResponse{
		TraceID:      traceID,
		Count:        len(txs),
		Transactions: dto.NewTransactionDTOs(txs),
	}, c.logger)
}

// HandleExport downloads the filtered history, newest first, as CSV named
// after the current day.
func (c *Controller) HandleExport(w http.ResponseWriter, r *http.Request) {
	traceID := trace.FromContext(r.Context())

	txs, err := c.ledger.History(r.Context(), historyFilter(r))
	if err != nil {
		respond.Error(w, traceID, err, c.logger)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.TransactionsFileName(c.clock.Now())))
	w.WriteHeader(http.StatusOK)
	if err := export.Transactions(w, txs); err != nil {
		c.logger.Error("failed to write transaction export", zap.String("traceId", traceID), zap.Error(err))
	}
}

func historyFilter(r *http.Request) service.HistoryFilter {
	q := r.URL.Query()
	return service.HistoryFilter{
		Date:      strings.TrimSpace(q.Get("date")),
		ProductID: strings.TrimSpace(q.Get("productId")),
	}
}
