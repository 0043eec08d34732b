package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockroom/internal/dto"
	apperrors "stockroom/internal/errors"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "validation",
			err:        apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{Field: "name", Message: "name is required"}),
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "not found",
			err:        apperrors.NewNotFoundError("product with id x not found"),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "insufficient stock",
			err:        apperrors.NewInsufficientStockError("p-1", 10, 5),
			wantStatus: http.StatusConflict,
			wantCode:   "INSUFFICIENT_STOCK",
		},
		{
			name:       "internal",
			err:        apperrors.NewInternalError("persisting snapshot", errors.New("disk full")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, "trace-1", tt.err, zap.NewNop())

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			body := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, body.Error)
			assert.Equal(t, "trace-1", body.TraceID)
		})
	}
}

func TestError_InsufficientStockCarriesQuantities(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, "trace-1", apperrors.NewInsufficientStockError("p-1", 10, 5), zap.NewNop())

	body := decodeError(t, rec)
	require.NotNil(t, body.Stock)
	assert.Equal(t, "p-1", body.Stock.ProductID)
	assert.Equal(t, 10, body.Stock.Requested)
	assert.Equal(t, 5, body.Stock.Available)
}

func TestError_InternalHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, "trace-1", errors.New("dial tcp 10.0.0.1:3306: refused"), zap.NewNop())

	body := decodeError(t, rec)
	assert.Equal(t, "an unexpected error occurred", body.Message)
}

func TestValidationError_IncludesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, "trace-1", "invalid JSON body", zap.NewNop(), apperrors.ValidationDetail{
		Field:   "body",
		Message: "request body must be valid JSON",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "body", body.Details[0].Field)
}
