package app

import "context"

// Storage is the port for durable local storage: a flat string key/value
// store holding the serialized cart. Adapters live under cart/storage.
type Storage interface {
	// Get returns the value stored under key. ok is false when the key has
	// never been written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set replaces the value under key.
	Set(ctx context.Context, key string, value []byte) error
}
