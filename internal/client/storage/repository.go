// Package storage is the durable key/value store behind the session: the
// access and refresh tokens live here between runs.
package storage

import "context"

// Repository is a small key/value store. Get returns (nil, nil) for a key
// that was never set.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error

	// Update applies every write made by fn atomically: all of them or none.
	Update(ctx context.Context, fn func(ctx context.Context, r Repository) error) error
}
