// Package inventory owns the in-memory catalog and ledger state and keeps it
// in step with the snapshot store.
package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"stockroom/internal/domain"
	apperrors "stockroom/internal/errors"
	"stockroom/internal/snapshot"
)

// State is the full inventory: the catalog in insertion order and the
// ledger oldest-first.
type State struct {
	Products     []domain.Product
	Transactions []domain.Transaction
}

// ProductIndex returns the position of the product with the given id, or -1.
func (s *State) ProductIndex(id string) int {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	return State{
		Products:     append([]domain.Product(nil), s.Products...),
		Transactions: append([]domain.Transaction(nil), s.Transactions...),
	}
}

type Options struct {
	// PersistHistory writes the ledger alongside the catalog. When false the
	// ledger lives only for the lifetime of the process.
	PersistHistory bool
}

type Store struct {
	mu        sync.RWMutex
	state     State
	snapshots snapshot.Store
	opts      Options
	logger    *zap.Logger
}

// storedProduct lets a snapshot omit minStockLevel, which then defaults.
type storedProduct struct {
	domain.Product
	MinStockLevel *int `json:"minStockLevel"`
}

func Open(ctx context.Context, snapshots snapshot.Store, opts Options, logger *zap.Logger) (*Store, error) {
	s := &Store{
		snapshots: snapshots,
		opts:      opts,
		logger:    logger,
	}

	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, err
	}
	s.state.Products = products

	if opts.PersistHistory {
		txs, err := s.loadTransactions(ctx)
		if err != nil {
			return nil, err
		}
		s.state.Transactions = txs
	}

	logger.Info("inventory loaded",
		zap.Int("products", len(s.state.Products)),
		zap.Int("transactions", len(s.state.Transactions)),
		zap.Bool("persistHistory", opts.PersistHistory))

	return s, nil
}

func (s *Store) loadProducts(ctx context.Context) ([]domain.Product, error) {
	data, err := s.snapshots.Get(ctx, snapshot.ProductsKey)
	if errors.Is(err, snapshot.ErrNotFound) {
		s.logger.Info("no product snapshot found, using sample catalog")
		return snapshot.SampleProducts(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading product snapshot: %w", err)
	}

	var stored []storedProduct
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("decoding product snapshot: %w", err)
	}

	products := make([]domain.Product, 0, len(stored))
	for _, sp := range stored {
		p := sp.Product
		p.MinStockLevel = domain.DefaultMinStockLevel
		if sp.MinStockLevel != nil {
			p.MinStockLevel = *sp.MinStockLevel
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *Store) loadTransactions(ctx context.Context) ([]domain.Transaction, error) {
	data, err := s.snapshots.Get(ctx, snapshot.TransactionsKey)
	if errors.Is(err, snapshot.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading transaction snapshot: %w", err)
	}

	var txs []domain.Transaction
	if err := json.Unmarshal(data, &txs); err != nil {
		return nil, fmt.Errorf("decoding transaction snapshot: %w", err)
	}
	return txs, nil
}

// View calls fn with the current state under a read lock. fn must not
// modify the slices or keep references to them after returning.
func (s *Store) View(fn func(State)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

// Update applies fn to a copy of the state, persists the result and only
// then makes it current. If fn or the snapshot write fails, nothing changes.
// Updates are serialized.
func (s *Store) Update(ctx context.Context, fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	if err := fn(&next); err != nil {
		return err
	}

	entries, err := s.encode(next)
	if err != nil {
		return apperrors.NewInternalError("encoding snapshot", err)
	}

	if err := s.snapshots.Put(ctx, entries...); err != nil {
		s.logger.Error("failed to persist snapshot", zap.Error(err))
		return apperrors.NewInternalError("persisting snapshot", err)
	}

	s.state = next
	return nil
}

func (s *Store) encode(state State) ([]snapshot.Entry, error) {
	products := state.Products
	if products == nil {
		products = []domain.Product{}
	}
	data, err := json.Marshal(products)
	if err != nil {
		return nil, err
	}
	entries := []snapshot.Entry{{Key: snapshot.ProductsKey, Value: data}}

	if s.opts.PersistHistory {
		txs := state.Transactions
		if txs == nil {
			txs = []domain.Transaction{}
		}
		data, err := json.Marshal(txs)
		if err != nil {
			return nil, err
		}
		entries = append(entries, snapshot.Entry{Key: snapshot.TransactionsKey, Value: data})
	}

	return entries, nil
}
