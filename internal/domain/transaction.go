package domain

import "time"

type TransactionType string

const (
	TransactionAdd    TransactionType = "add"
	TransactionDeduct TransactionType = "deduct"
)

func (t TransactionType) Valid() bool {
	return t == TransactionAdd || t == TransactionDeduct
}

// Transaction is one immutable ledger entry. ProductName is a copy taken
// at the time of the adjustment, and ProductID may outlive the product.
type Transaction struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"productId"`
	ProductName      string          `json:"productName"`
	Type             TransactionType `json:"type"`
	Quantity         int             `json:"quantity"`
	PreviousQuantity int             `json:"previousQuantity"`
	NewQuantity      int             `json:"newQuantity"`
	Notes            string          `json:"notes,omitempty"`
	Date             time.Time       `json:"date"`
}

// Delta is the signed change this transaction applied to the product.
func (t Transaction) Delta() int {
	if t.Type == TransactionDeduct {
		return -t.Quantity
	}
	return t.Quantity
}
