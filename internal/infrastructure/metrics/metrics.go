// Package metrics exposes the service's Prometheus instruments on a
// dedicated registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stockroom/internal/domain"
	"stockroom/internal/inventory"
)

// unmatchedRoute labels requests no route matched, keeping scanner
// traffic to a single series.
const unmatchedRoute = "unmatched"

type CatalogSource interface {
	View(fn func(inventory.State))
}

type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	transactionsTotal    *prometheus.CounterVec
	transactionsRejected *prometheus.CounterVec
}

func New(prefix string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		transactionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_stock_transactions_total",
				Help: "Stock transactions applied, by type",
			},
			[]string{"type"},
		),
		transactionsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_stock_transactions_rejected_total",
				Help: "Stock transactions rejected, by reason",
			},
			[]string{"reason"},
		),
	}
}

// RegisterCatalog adds gauges that read the catalog at scrape time.
func (m *Metrics) RegisterCatalog(prefix string, source CatalogSource) {
	factory := promauto.With(m.registry)

	countBy := func(keep func(domain.Product) bool) func() float64 {
		return func() float64 {
			n := 0
			source.View(func(st inventory.State) {
				for _, p := range st.Products {
					if keep(p) {
						n++
					}
				}
			})
			return float64(n)
		}
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: prefix + "_catalog_products",
		Help: "Products currently in the catalog",
	}, countBy(func(domain.Product) bool { return true }))

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: prefix + "_catalog_low_stock_products",
		Help: "Products at or below their minimum stock level but not empty",
	}, countBy(func(p domain.Product) bool { return p.Status() == domain.StatusLowStock }))

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: prefix + "_catalog_out_of_stock_products",
		Help: "Products with no units on hand",
	}, countBy(func(p domain.Product) bool { return p.Status() == domain.StatusOutOfStock }))
}

func (m *Metrics) TransactionApplied(txType domain.TransactionType) {
	m.transactionsTotal.WithLabelValues(string(txType)).Inc()
}

func (m *Metrics) TransactionRejected(reason string) {
	m.transactionsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request counts and latency labelled by the matched
// chi route pattern, so path parameters do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		labels := []string{r.Method, path, strconv.Itoa(status)}

		m.httpRequestsTotal.WithLabelValues(labels...).Inc()
		m.httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
	})
}
