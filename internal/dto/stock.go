package dto

import (
	"time"

	"stockroom/internal/domain"
)

type StockTransactionRequest struct {
	ProductID string `json:"productId"`
	Type      string `json:"type"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes"`
}

type TransactionDTO struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"productId"`
	ProductName      string    `json:"productName"`
	Type             string    `json:"type"`
	Quantity         int       `json:"quantity"`
	PreviousQuantity int       `json:"previousQuantity"`
	NewQuantity      int       `json:"newQuantity"`
	Notes            string    `json:"notes,omitempty"`
	Date             time.Time `json:"date"`
}

func NewTransactionDTO(t domain.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:               t.ID,
		ProductID:        t.ProductID,
		ProductName:      t.ProductName,
		Type:             string(t.Type),
		Quantity:         t.Quantity,
		PreviousQuantity: t.PreviousQuantity,
		NewQuantity:      t.NewQuantity,
		Notes:            t.Notes,
		Date:             t.Date.UTC(),
	}
}

func NewTransactionDTOs(txs []domain.Transaction) []TransactionDTO {
	out := make([]TransactionDTO, 0, len(txs))
	for _, t := range txs {
		out = append(out, NewTransactionDTO(t))
	}
	return out
}

type StockTransactionResponse struct {
	TraceID     string         `json:"traceId"`
	Transaction TransactionDTO `json:"transaction"`
	Timestamp   time.Time      `json:"timestamp"`
}

type TransactionHistoryResponse struct {
	TraceID      string           `json:"traceId"`
	Count        int              `json:"count"`
	Transactions []TransactionDTO `json:"transactions"`
}
