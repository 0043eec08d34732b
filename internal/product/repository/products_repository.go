package repository

import (
	"context"
	"fmt"

	"stockroom/internal/domain"
	"stockroom/internal/errors"
	"stockroom/internal/inventory"
)

type InventoryStore interface {
	View(fn func(inventory.State))
	Update(ctx context.Context, fn func(*inventory.State) error) error
}

// InventoryRepository reads and writes catalog entries held by the
// inventory store. Every write is persisted before it becomes visible.
type InventoryRepository struct {
	store InventoryStore
}

func NewInventoryRepository(store InventoryStore) *InventoryRepository {
	return &InventoryRepository{store: store}
}

func (r *InventoryRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	r.store.View(func(st inventory.State) {
		products = append(make([]domain.Product, 0, len(st.Products)), st.Products...)
	})
	return products, nil
}

func (r *InventoryRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var (
		product domain.Product
		found   bool
	)
	r.store.View(func(st inventory.State) {
		if i := st.ProductIndex(id); i >= 0 {
			product, found = st.Products[i], true
		}
	})

	if !found {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %s not found", id))
	}
	return &product, nil
}

func (r *InventoryRepository) Insert(ctx context.Context, product domain.Product) error {
	return r.store.Update(ctx, func(st *inventory.State) error {
		if st.ProductIndex(product.ID) >= 0 {
			return fmt.Errorf("inserting product: id %s already exists", product.ID)
		}
		st.Products = append(st.Products, product)
		return nil
	})
}

func (r *InventoryRepository) Update(ctx context.Context, product domain.Product) error {
	return r.store.Update(ctx, func(st *inventory.State) error {
		i := st.ProductIndex(product.ID)
		if i < 0 {
			return errors.NewNotFoundError(fmt.Sprintf("product with id %s not found", product.ID))
		}
		st.Products[i] = product
		return nil
	})
}

func (r *InventoryRepository) Delete(ctx context.Context, id string) (*domain.Product, error) {
	var removed domain.Product
	err := r.store.Update(ctx, func(st *inventory.State) error {
		i := st.ProductIndex(id)
		if i < 0 {
			return errors.NewNotFoundError(fmt.Sprintf("product with id %s not found", id))
		}
		removed = st.Products[i]
		st.Products = append(st.Products[:i], st.Products[i+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &removed, nil
}
