package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stockroom/internal/domain"
	"stockroom/internal/dto"
	apperrors "stockroom/internal/errors"
	"stockroom/internal/export"
	"stockroom/internal/pkg/respond"
	"stockroom/internal/pkg/trace"
	"stockroom/internal/product/service"
)

type Catalog interface {
	Add(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error)
	Remove(ctx context.Context, id string) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	LowStock(ctx context.Context, threshold *int) ([]domain.Product, error)
	List(ctx context.Context, f service.ListFilter) ([]domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

type DashboardUseCase interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type Controller struct {
	catalog   Catalog
	dashboard DashboardUseCase
	logger    *zap.Logger
}

func NewController(catalog Catalog, dashboard DashboardUseCase, logger *zap.Logger) *Controller {
	return &Controller{
		catalog:   catalog,
		dashboard: dashboard,
		logger:    logger,
	}
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	traceID := trace.FromContext(r.Context())

	products, err := c.catalog.List(r.Context(), listFilter(r))
	if err != nil {
		c.handleServiceError(w, traceID, err)
		return
	}

	respond.JSON(w, http.StatusOK, dto.ProductListResponse{
		TraceID:  traceID,
		Count:    len(products),
		Products: dto.NewProductDTOs(products),
	}, c.logger)
}

func (c *Controller) HandleCreate(w http.ResponseWriter, r *http.Request) {
	traceID := trace.FromContext(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	req, ok := c.decodeProductRequest(w, r, traceID, logger)
	if !ok {
		return
	}

	product, err := c.catalog.Add(r.Context(), req.ToInput())
	if err != nil {
		c.handleServiceError(w, traceID, err)
		return
	}

	respond.JSON(w, http.StatusCreated, dto.ProductResponse{
		TraceID: traceID,
		Product: dto.NewProductDTO(*product),
	}, c.logger)
}

func (c *Controller) HandleGet(w http.ResponseWriter, r *http.Request) {
	traceID := trace.FromContext(r.Context())

	product, err := c.catalog.FindByID(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		c.handleServiceError(w, traceID, err)
		return
	}

	respond.JSON(w, http.StatusOK, dto.ProductResponse{
		TraceID: traceID,
		Product: dto.NewProductDTO(*product),
	}, c.logger)
}

func (c *Controller) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	traceID := trace.FromContext(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	req, ok := c.decodeProductRequest(w, r, traceID, logger)
	if !ok {
		return
	}

	product, err := c.catalog.Update(r.Context(), chi.URLParam(r, "productId"), req.ToInput())
	if err != nil {
		c.handleServiceError(w, traceID, err)
		return
	}

	respond.JSON(w, http.StatusOK, dto.ProductResponse{
		TraceID: traceID,
		Product: dto.NewProductDTO(*product),
	}, c.logger)
}

func (c *Controller) HandleDelete(w http.ResponseWriter, r *http.Request) {
	traceID := trace.FromContext(r.Context())

	removed, err := c.catalog.Remove(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		c.handleServiceError(w, traceID, err)
		return
	}

	respond.JSON(w, http.StatusOK, dto.ProductResponse{
		TraceID: traceID,
		Product: dto.NewProductDTO(*removed),
	}, c.logger)
}

func (c *Controller) HandleLowStock(w http.ResponseWriter, r *http.Request) {
	traceID := trace.FromContext(r.Context())

	var threshold *int
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respond.ValidationError(w, traceID, "invalid threshold", c.logger, apperrors.ValidationDetail{
				Field:   "threshold",
				Message: "threshold must be an integer",
			})
			return
		}
		threshold = &n
	}

	products, err := c.catalog.LowStock(r.Context(), threshold)
	if err != nil {
		c.handleServiceError(w, traceID, err)
		return
	}

	respond.JSON(w, http.StatusOK, dto.ProductListResponse{
		TraceID:  traceID,
		Count:    len(products),
		Products: dto.NewProductDTOs(products),
	}, c.logger)
}

func (c *Controller) HandleCategories(w http.ResponseWriter, r *http.Request) {
	traceID := trace.FromContext(r.Context())

	categories, err := c.catalog.Categories(r.Context())
	if err != nil {
		c.handleServiceError(w, traceID, err)
		return
	}

	respond.JSON(w, http.StatusOK, dto.CategoriesResponse{
		TraceID:    traceID,
		Categories: categories,
	}, c.logger)
}

// HandleExport downloads the filtered catalog as CSV.
func (c *Controller) HandleExport(w http.ResponseWriter, r *http.Request) {
	traceID := trace.FromContext(r.Context())

	products, err := c.catalog.List(r.Context(), listFilter(r))
	if err != nil {
		c.handleServiceError(w, traceID, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.ProductsFileName))
	w.WriteHeader(http.StatusOK)
	if err := export.Products(w, products); err != nil {
		c.logger.Error("failed to write product export", zap.String("traceId", traceID), zap.Error(err))
	}
}

func (c *Controller) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	traceID := trace.FromContext(r.Context())

	resp, err := c.dashboard.Dashboard(r.Context())
	if err != nil {
		c.handleServiceError(w, traceID, err)
		return
	}

	resp.TraceID = traceID
	respond.JSON(w, http.StatusOK, resp, c.logger)
}

func (c *Controller) decodeProductRequest(w http.ResponseWriter, r *http.Request, traceID string, logger *zap.Logger) (dto.ProductRequest, bool) {
	var req dto.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		respond.ValidationError(w, traceID, "invalid JSON body", c.logger, apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return req, false
	}
	return req, true
}

func (c *Controller) handleServiceError(w http.ResponseWriter, traceID string, err error) {
	c.logger.Warn("product request failed", zap.String("traceId", traceID), zap.Error(err))
	respond.Error(w, traceID, err, c.logger)
}

func listFilter(r *http.Request) service.ListFilter {
	q := r.URL.Query()
	return service.ListFilter{
		Search:   strings.TrimSpace(q.Get("search")),
		Category: q.Get("category"),
	}
}
