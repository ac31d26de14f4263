package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key has never been written or was deleted.
var ErrNotFound = errors.New("state key not found")

// Store is the per-device key-value persistence the storefront keeps its
// cart and applied gift card in. Values are raw JSON documents.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Purger is implemented by backends without native expiry so a janitor can
// drop state that has not been touched for a while.
type Purger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SessionKey namespaces key under a session so one backend can hold every
// shopper's state.
func SessionKey(sessionID, key string) string {
	return "session:" + sessionID + ":" + key
}
