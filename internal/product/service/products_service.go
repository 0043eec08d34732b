package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stockroom/internal/domain"
	apperrors "stockroom/internal/errors"
)

type Repository interface {
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Insert(ctx context.Context, product domain.Product) error
	Update(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, id string) (*domain.Product, error)
}

// ListFilter narrows List results. Empty fields match everything.
type ListFilter struct {
	Search   string
	Category string
}

// ProductService is the product catalog: validated create, update and
// delete plus read-only queries over the current products.
type ProductService struct {
	repo   Repository
	newID  func() string
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		newID:  uuid.NewString,
		logger: logger,
	}
}

// WithIDGenerator replaces the UUID generator, mainly for tests.
func (s *ProductService) WithIDGenerator(newID func() string) *ProductService {
	s.newID = newID
	return s
}

func (s *ProductService) Add(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	product := buildProduct(s.newID(), in)
	if err := s.repo.Insert(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product added",
		zap.String("productId", product.ID),
		zap.String("name", product.Name),
		zap.Int("quantity", product.Quantity))

	return &product, nil
}

func (s *ProductService) Update(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	product := buildProduct(id, in)
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product updated",
		zap.String("productId", id),
		zap.Int("quantity", product.Quantity),
		zap.String("status", string(product.Status())))

	return &product, nil
}

// Remove deletes the product. Ledger entries that reference it are kept.
func (s *ProductService) Remove(ctx context.Context, id string) (*domain.Product, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("product removed", zap.String("productId", id), zap.String("name", removed.Name))
	return removed, nil
}

func (s *ProductService) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) ByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.filter(ctx, func(p domain.Product) bool {
		return p.Category == category
	})
}

// LowStock returns products at or below their own minimum stock level, out
// of stock ones included. A non-nil threshold replaces every per-product
// minimum with a single value.
func (s *ProductService) LowStock(ctx context.Context, threshold *int) ([]domain.Product, error) {
	if threshold != nil && *threshold < 0 {
		return nil, apperrors.NewValidationError("threshold must be non-negative", apperrors.ValidationDetail{
			Field:   "threshold",
			Message: "threshold must be non-negative",
		})
	}

	return s.filter(ctx, func(p domain.Product) bool {
		limit := p.MinStockLevel
		if threshold != nil {
			limit = *threshold
		}
		return p.Quantity <= limit
	})
}

// Search matches term case-insensitively against name, description and
// category, keeping catalog order.
func (s *ProductService) Search(ctx context.Context, term string) ([]domain.Product, error) {
	return s.filter(ctx, func(p domain.Product) bool {
		return p.Matches(term)
	})
}

func (s *ProductService) List(ctx context.Context, f ListFilter) ([]domain.Product, error) {
	return s.filter(ctx, func(p domain.Product) bool {
		if f.Search != "" && !p.Matches(f.Search) {
			return false
		}
		return f.Category == "" || p.Category == f.Category
	})
}

// Categories lists distinct categories in the order they first appear.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(products))
	categories := make([]string, 0)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories, nil
}

func (s *ProductService) Summary(ctx context.Context) (domain.Summary, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(products), nil
}

func (s *ProductService) filter(ctx context.Context, keep func(domain.Product) bool) ([]domain.Product, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if keep(p) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func buildProduct(id string, in domain.ProductInput) domain.Product {
	minStock := domain.DefaultMinStockLevel
	if in.MinStockLevel != nil {
		minStock = *in.MinStockLevel
	}

	return domain.Product{
		ID:            id,
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		Category:      strings.TrimSpace(in.Category),
		Price:         *in.Price,
		Quantity:      *in.Quantity,
		MinStockLevel: minStock,
	}
}

func validateProductInput(in domain.ProductInput) error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(in.Name) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "name",
			Message: "name is required",
		})
	}

	if strings.TrimSpace(in.Category) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "category",
			Message: "category is required",
		})
	}

	if in.Price == nil {
		details = append(details, apperrors.ValidationDetail{
			Field:   "price",
			Message: "price is required",
		})
	} else if in.Price.IsNegative() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "price",
			Message: "price must be non-negative",
		})
	}

	if in.Quantity == nil {
		details = append(details, apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity is required",
		})
	} else if *in.Quantity < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be a non-negative integer",
		})
	}

	if in.MinStockLevel != nil && *in.MinStockLevel < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "minStockLevel",
			Message: "minStockLevel must be a non-negative integer",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}
