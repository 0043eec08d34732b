// Package respond writes the JSON bodies shared by every controller.
package respond

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"stockroom/internal/dto"
	apperrors "stockroom/internal/errors"
)

func JSON(w http.ResponseWriter, status int, data interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func ValidationError(w http.ResponseWriter, traceID, message string, logger *zap.Logger, details ...apperrors.ValidationDetail) {
	JSON(w, http.StatusBadRequest, dto.ErrorResponse{
		TraceID:   traceID,
		Error:     "VALIDATION_ERROR",
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}, logger)
}

// Error maps a service error onto its status code and error body. Unknown
// errors are logged and reported without their message.
func Error(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		ValidationError(w, traceID, ve.Message, logger, ve.Details...)
		return
	}

	resp := dto.ErrorResponse{
		TraceID:   traceID,
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
	status := http.StatusInternalServerError

	if _, ok := apperrors.IsNotFoundError(err); ok {
		status = http.StatusNotFound
		resp.Error = "NOT_FOUND"
	} else if ise, ok := apperrors.IsInsufficientStockError(err); ok {
		status = http.StatusConflict
		resp.Error = "INSUFFICIENT_STOCK"
		resp.Stock = &dto.InsufficientStockDetails{
			ProductID: ise.ProductID,
			Requested: ise.Requested,
			Available: ise.Available,
		}
	} else {
		logger.Error("unexpected error", zap.Error(err))
		resp.Error = "INTERNAL_ERROR"
		resp.Message = "an unexpected error occurred"
	}

	JSON(w, status, resp, logger)
}
