package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockroom/internal/dto"
	"stockroom/internal/infrastructure/metrics"
	"stockroom/internal/inventory"
	"stockroom/internal/pkg/clock"
	"stockroom/internal/pkg/trace"
	"stockroom/internal/product"
	"stockroom/internal/snapshot"
	"stockroom/internal/stock"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()

	store, err := inventory.Open(context.Background(), snapshot.NewMemoryStore(), inventory.Options{}, logger)
	require.NoError(t, err)

	m := metrics.New("test")
	m.RegisterCatalog("test", store)
	clk := clock.NewMockClock(time.Date(2023, 10, 15, 10, 30, 0, 0, time.UTC))

	return NewRouter(
		product.NewModule(store, logger),
		stock.NewModule(store, clk, m, logger),
		m,
		time.Second,
		logger,
	)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestRouter_Health(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(trace.Header))
}

func TestRouter_PropagatesTraceID(t *testing.T) {
	h := newTestRouter(t)
	callerTrace := "0b6f3c1e-8f5a-4d2b-9c7e-1a2b3c4d5e6f"

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set(trace.Header, callerTrace)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, callerTrace, rec.Header().Get(trace.Header))

	var resp dto.ProductListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, callerTrace, resp.TraceID)
	assert.Equal(t, 4, resp.Count)
}

func TestRouter_ReplacesInvalidTraceID(t *testing.T) {
	h := newTestRouter(t)

	for _, supplied := range []string{"caller-trace", strings.Repeat("x", 4096), "<script>alert(1)</script>"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.Header.Set(trace.Header, supplied)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		got := rec.Header().Get(trace.Header)
		assert.NotEqual(t, supplied, got)
		_, err := uuid.Parse(got)
		assert.NoError(t, err)

		var resp dto.ProductListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, got, resp.TraceID)
	}
}

func TestRouter_StockFlow(t *testing.T) {
	h := newTestRouter(t)
	cappuccinoID := snapshot.SampleProducts()[1].ID

	rec := do(t, h, http.MethodPost, "/api/v1/stock/transactions",
		`{"productId":"`+cappuccinoID+`","type":"deduct","quantity":3,"notes":"Sold to customer"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/products/"+cappuccinoID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got dto.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 5, got.Product.Quantity)
	assert.Equal(t, "Low Stock", got.Product.Status)

	rec = do(t, h, http.MethodPost, "/api/v1/stock/transactions",
		`{"productId":"`+cappuccinoID+`","type":"deduct","quantity":10}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	var errResp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Error)
	require.NotNil(t, errResp.Stock)
	assert.Equal(t, 5, errResp.Stock.Available)

	rec = do(t, h, http.MethodGet, "/api/v1/stock/transactions?date=2023-10-15", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var history dto.TransactionHistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Equal(t, 1, history.Count)

	rec = do(t, h, http.MethodGet, "/api/v1/stock/transactions/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"2023-10-15 10:30:00","Cappuccino","deduct","3","8","5","Sold to customer"`)

	rec = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_stock_transactions_total{type="deduct"} 1`)
	assert.Contains(t, rec.Body.String(), `test_stock_transactions_rejected_total{reason="insufficient_stock"} 1`)
}

func TestRouter_ProductLifecycle(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/products",
		`{"name":"Latte","category":"Beverages","description":"Milky","price":4.0,"quantity":12}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created dto.ProductResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 10, created.Product.MinStockLevel)

	rec = do(t, h, http.MethodGet, "/api/v1/products?search=MILK", "")
	var list dto.ProductListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Count)

	rec = do(t, h, http.MethodDelete, "/api/v1/products/"+created.Product.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/v1/products/"+created.Product.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/products", `{"name":"","price":-1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var verr dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verr))
	assert.Equal(t, "VALIDATION_ERROR", verr.Error)
	assert.NotEmpty(t, verr.Details)
}

func TestRouter_DashboardAndCategories(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/v1/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var dash dto.DashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dash))
	assert.Equal(t, 4, dash.TotalProducts)
	assert.Equal(t, 2, dash.LowStockCount)
	assert.Equal(t, 0, dash.OutOfStockCount)
	assert.Equal(t, "277.25", dash.TotalValue.StringFixed(2))

	rec = do(t, h, http.MethodGet, "/api/v1/products/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cats dto.CategoriesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	assert.NotEmpty(t, cats.Categories)

	rec = do(t, h, http.MethodGet, "/api/v1/products/low-stock", "")
	var low dto.ProductListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &low))
	assert.Equal(t, 2, low.Count)
}
