package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	c := NewRedisCache("localhost:0", "storefront")
	t.Cleanup(func() { _ = c.Close() })

	assert.Equal(t, "storefront:local_storage:cart", c.GenerateKey("local_storage", "cart"))
}

func TestRedisCache_UnreachableServer(t *testing.T) {
	// Port 1 refuses connections; no retries so the test stays fast.
	c := newRedisCache(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	}), "storefront")
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()

	_, err := c.Get(ctx, "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)

	assert.Error(t, c.Set(ctx, "k", "v", 0))
	assert.Error(t, c.Ping(ctx))
}
