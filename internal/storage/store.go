// Package storage provides the key/value stores that back the résumé
// persistence adapter: a durable file store standing in for browser local
// storage, and an in-memory store standing in for tab-scoped session storage.
package storage

import (
	"context"
	"errors"
)

// ErrQuotaExceeded is returned by Set when the store's capacity would be exceeded.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// DefaultQuota mirrors the usual per-origin local storage allowance.
const DefaultQuota int64 = 5 * 1024 * 1024

// Store is a string-keyed byte store. Get returns (nil, nil) for missing keys.
// Set replaces the whole value in a single operation.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
