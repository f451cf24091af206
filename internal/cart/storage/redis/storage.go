// Package redis stores cart snapshots in Redis through the shared cache
// client. Keys are scoped as <service>:local_storage:<key>.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/jcmexdev/storefront/internal/pkg/cache"
)

const operation = "local_storage"

// Storage implements app.Storage on a cache.Cache.
type Storage struct {
	cache cache.Cache
}

func New(c cache.Cache) *Storage {
	return &Storage{cache: c}
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.cache.Get(ctx, s.cache.GenerateKey(operation, key))
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis: get %q: %w", key, err)
	}
	return []byte(v), true, nil
}

// Set writes the value without expiry; local storage never evicts.
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	if err := s.cache.Set(ctx, s.cache.GenerateKey(operation, key), string(value), 0); err != nil {
		return fmt.Errorf("redis: set %q: %w", key, err)
	}
	return nil
}
