// Package kv provides the durable key-value tier behind the geocoding
// cache. Two backends exist: the sqlite table that ships with the app
// database, and redis for deployments that set REDIS_URL.
package kv

import "context"

type Store interface {
	// GetItem returns the stored value and whether the key exists.
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}
