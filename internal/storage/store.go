package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no value
var ErrNotFound = errors.New("storage: key not found")

// Store represents a flat key-value store. Writes are whole-value by
// key; there is no partial-field update and no cross-key transaction.
type Store interface {
	// Get retrieves a value by key, or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value under a key, overwriting any previous value
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists all stored keys
	Keys(ctx context.Context) ([]string, error)

	// Clear removes every key
	Clear(ctx context.Context) error
}
