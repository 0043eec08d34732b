package dto

import (
	"time"

	apperrors "stockroom/internal/errors"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	TraceID   string                       `json:"traceId"`
	Error     string                       `json:"error"`
	Message   string                       `json:"message"`
	Details   []apperrors.ValidationDetail `json:"details,omitempty"`
	Stock     *InsufficientStockDetails    `json:"stock,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

// InsufficientStockDetails is attached to INSUFFICIENT_STOCK responses.
type InsufficientStockDetails struct {
	ProductID string `json:"productId"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}
