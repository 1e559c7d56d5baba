package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Backend when a key has no value.
var ErrNotFound = errors.New("store: key not found")

// Backend is a byte-oriented key-value store. Implementations must be safe
// for concurrent use.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
