// Package snapshot stores whole-collection documents under fixed keys.
package snapshot

import (
	"context"
	"errors"
)

const (
	ProductsKey     = "wingsCafeProducts"
	TransactionsKey = "wingsCafeTransactions"
)

var ErrNotFound = errors.New("snapshot not found")

type Entry struct {
	Key   string
	Value []byte
}

// Store is a key-value snapshot store. Put replaces every given entry or
// none of them.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, entries ...Entry) error
	Close() error
}
