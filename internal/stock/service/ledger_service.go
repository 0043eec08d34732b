package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockroom/internal/domain"
	apperrors "stockroom/internal/errors"
	"stockroom/internal/inventory"
	"stockroom/internal/pkg/clock"
)

type InventoryStore interface {
	View(fn func(inventory.State))
	Update(ctx context.Context, fn func(*inventory.State) error) error
}

// Recorder observes ledger outcomes, typically for metrics.
type Recorder interface {
	TransactionApplied(txType domain.TransactionType)
	TransactionRejected(reason string)
}

type HistoryFilter struct {
	// Date is matched as a prefix of the RFC 3339 UTC timestamp, so
	// "2023-10-15" selects one calendar day and "2023-10" a month.
	Date      string
	ProductID string
}

// LedgerService applies stock adjustments and keeps the append-only
// transaction history.
type LedgerService struct {
	store    InventoryStore
	clock    clock.Clock
	recorder Recorder
	newID    func() string
	logger   *zap.Logger
}

func NewLedgerService(store InventoryStore, clk clock.Clock, recorder Recorder, logger *zap.Logger) *LedgerService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &LedgerService{
		store:    store,
		clock:    clk,
		recorder: recorder,
		newID:    uuid.NewString,
		logger:   logger,
	}
}

func (s *LedgerService) WithIDGenerator(newID func() string) *LedgerService {
	s.newID = newID
	return s
}

// Apply adjusts the product's quantity by magnitude and records the
// adjustment. The quantity change and the new history entry are committed
// together; on any error neither is visible.
func (s *LedgerService) Apply(
	ctx context.Context,
	productID string,
	txType domain.TransactionType,
	magnitude int,
	notes string,
) (*domain.Transaction, error) {
	if err := validateApply(productID, txType, magnitude); err != nil {
		s.recorder.TransactionRejected("validation")
		return nil, err
	}

	var created domain.Transaction
	err := s.store.Update(ctx, func(st *inventory.State) error {
		i := st.ProductIndex(productID)
		if i < 0 {
			return apperrors.NewNotFoundError(fmt.Sprintf("product with id %s not found", productID))
		}
		product := &st.Products[i]

		previous := product.Quantity
		var next int
		switch txType {
		case domain.TransactionAdd:
			if magnitude > math.MaxInt-previous {
				return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
					Field:   "quantity",
					Message: fmt.Sprintf("adding %d units to %d would overflow the stock counter", magnitude, previous),
				})
			}
			next = previous + magnitude
		case domain.TransactionDeduct:
			if magnitude > previous {
				return apperrors.NewInsufficientStockError(productID, magnitude, previous)
			}
			next = previous - magnitude
		}

		product.Quantity = next
		created = domain.Transaction{
			ID:               s.newID(),
			ProductID:        product.ID,
			ProductName:      product.Name,
			Type:             txType,
			Quantity:         magnitude,
			PreviousQuantity: previous,
			NewQuantity:      next,
			Notes:            strings.TrimSpace(notes),
			Date:             s.clock.Now().UTC(),
		}
		st.Transactions = append(st.Transactions, created)
		return nil
	})
	if err != nil {
		s.recorder.TransactionRejected(rejectReason(err))
		s.logger.Warn("stock transaction rejected",
			zap.String("productId", productID),
			zap.String("type", string(txType)),
			zap.Int("quantity", magnitude),
			zap.Error(err))
		return nil, err
	}

	s.recorder.TransactionApplied(txType)
	s.logger.Info("stock transaction applied",
		zap.String("transactionId", created.ID),
		zap.String("productId", productID),
		zap.String("type", string(txType)),
		zap.Int("quantity", magnitude),
		zap.Int("previousQuantity", created.PreviousQuantity),
		zap.Int("newQuantity", created.NewQuantity))

	return &created, nil
}

// History returns matching transactions, newest first.
func (s *LedgerService) History(ctx context.Context, f HistoryFilter) ([]domain.Transaction, error) {
	history := make([]domain.Transaction, 0)
	s.store.View(func(st inventory.State) {
		for i := len(st.Transactions) - 1; i >= 0; i-- {
			t := st.Transactions[i]
			if f.ProductID != "" && t.ProductID != f.ProductID {
				continue
			}
			if f.Date != "" && !strings.HasPrefix(t.Date.UTC().Format(time.RFC3339), f.Date) {
				continue
			}
			history = append(history, t)
		}
	})
	return history, nil
}

func validateApply(productID string, txType domain.TransactionType, magnitude int) error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(productID) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId is required",
		})
	}

	if !txType.Valid() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "type",
			Message: "type must be one of: add, deduct",
		})
	}

	if magnitude <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be a positive integer",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func rejectReason(err error) string {
	switch {
	case isValidation(err):
		return "validation"
	case isNotFound(err):
		return "not_found"
	case isInsufficient(err):
		return "insufficient_stock"
	default:
		return "internal"
	}
}

func isValidation(err error) bool {
	_, ok := apperrors.IsValidationError(err)
	return ok
}

func isNotFound(err error) bool {
	_, ok := apperrors.IsNotFoundError(err)
	return ok
}

func isInsufficient(err error) bool {
	_, ok := apperrors.IsInsufficientStockError(err)
	return ok
}

type nopRecorder struct{}

func (nopRecorder) TransactionApplied(domain.TransactionType) {}
func (nopRecorder) TransactionRejected(string)                {}
