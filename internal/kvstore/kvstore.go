// Package kvstore provides the key-value store backing the medical card's
// per-worker upload cache. It defines the Store interface the card is
// constructed with, plus in-memory, file-backed, and Postgres-backed
// implementations.
package kvstore

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when no value exists for the key.
var ErrKeyNotFound = errors.New("key not found")

// Store is a minimal string key-value store. The cache it backs is cosmetic:
// last writer wins, no locking across processes, no expiry.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
