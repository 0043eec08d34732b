package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockroom/internal/infrastructure/metrics"
	productctrl "stockroom/internal/product/controller"
	"stockroom/internal/pkg/respond"
	"stockroom/internal/pkg/trace"
	stockctrl "stockroom/internal/stock/controller"
)

func NewRouter(
	productCtrl *productctrl.Controller,
	stockCtrl *stockctrl.Controller,
	m *metrics.Metrics,
	requestTimeout time.Duration,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(traceMiddleware)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if requestTimeout > 0 {
			r.Use(middleware.Timeout(requestTimeout))
		}

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productCtrl.HandleList)
			r.Post("/", productCtrl.HandleCreate)
			r.Get("/low-stock", productCtrl.HandleLowStock)
			r.Get("/categories", productCtrl.HandleCategories)
			r.Get("/export", productCtrl.HandleExport)
			r.Get("/{productId}", productCtrl.HandleGet)
			r.Put("/{productId}", productCtrl.HandleUpdate)
			r.Delete("/{productId}", productCtrl.HandleDelete)
		})

		r.Get("/dashboard", productCtrl.HandleDashboard)

		r.Route("/stock/transactions", func(r chi.Router) {
			r.Get("/", stockCtrl.HandleHistory)
			r.Post("/", stockCtrl.HandleApply)
			r.Get("/export", stockCtrl.HandleExport)
		})
	})

	return r
}

// traceMiddleware reuses the caller's X-Trace-Id when it is a UUID, otherwise
// assigns a new one, and echoes it on the response.
func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(trace.Header)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.New().String()
		}
		w.Header().Set(trace.Header, traceID)
		next.ServeHTTP(w, r.WithContext(trace.NewContext(r.Context(), traceID)))
	})
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request completed",
				zap.String("traceId", trace.FromContext(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("latency", time.Since(start)))
		})
	}
}
