package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/domain"
	"stockroom/internal/inventory"
)

type staticCatalog struct {
	products []domain.Product
}

func (s staticCatalog) View(fn func(inventory.State)) {
	fn(inventory.State{Products: s.products})
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestTransactionCounters(t *testing.T) {
	m := New("test")

	m.TransactionApplied(domain.TransactionAdd)
	m.TransactionApplied(domain.TransactionDeduct)
	m.TransactionApplied(domain.TransactionDeduct)
	m.TransactionRejected("insufficient_stock")

	body := scrape(t, m)
	assert.Contains(t, body, `test_stock_transactions_total{type="add"} 1`)
	assert.Contains(t, body, `test_stock_transactions_total{type="deduct"} 2`)
	assert.Contains(t, body, `test_stock_transactions_rejected_total{reason="insufficient_stock"} 1`)
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := New("test")

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/v1/products/{productId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	body := scrape(t, m)
	assert.Contains(t, body, `test_http_requests_total{method="GET",path="/api/v1/products/{productId}",status="404"} 3`)
	assert.NotContains(t, body, `path="/api/v1/products/a"`)
}

func TestMiddleware_UnmatchedPathsShareOneSeries(t *testing.T) {
	m := New("test")

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {})

	for _, path := range []string{"/scan/0", "/scan/1", "/wp-login.php"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	body := scrape(t, m)
	assert.Contains(t, body, `test_http_requests_total{method="GET",path="unmatched",status="404"} 3`)
	assert.NotContains(t, body, `path="/scan/0"`)
	assert.NotContains(t, body, `path="/wp-login.php"`)
}

func TestHandler_ExposesCatalogGauges(t *testing.T) {
	m := New("test")
	m.RegisterCatalog("test", staticCatalog{products: []domain.Product{
		{ID: "1", Price: decimal.NewFromInt(1), Quantity: 42, MinStockLevel: 10},
		{ID: "2", Price: decimal.NewFromInt(1), Quantity: 8, MinStockLevel: 10},
		{ID: "3", Price: decimal.NewFromInt(1), Quantity: 0, MinStockLevel: 10},
	}})

	body := scrape(t, m)
	assert.True(t, strings.Contains(body, "test_catalog_products 3"), body)
	assert.Contains(t, body, "test_catalog_low_stock_products 1")
	assert.Contains(t, body, "test_catalog_out_of_stock_products 1")
}
