package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/cart/app"
	"github.com/jcmexdev/storefront/internal/cart/domain"
	"github.com/jcmexdev/storefront/internal/pkg/cache"
)

var _ app.Storage = (*Storage)(nil)

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.data[key] = fmt.Sprint(value)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.data[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return v, nil
}

func (f *fakeCache) GenerateKey(operation, key string) string {
	return "storefront:" + operation + ":" + key
}

func (f *fakeCache) Ping(context.Context) error { return f.err }
func (f *fakeCache) Close() error               { return nil }

func TestStorage_Miss(t *testing.T) {
	_, ok, err := New(newFakeCache()).Get(context.Background(), "cart")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorage_ScopedKeyWithoutExpiry(t *testing.T) {
	ctx := context.Background()
	fc := newFakeCache()
	st := New(fc)

	require.NoError(t, st.Set(ctx, "cart", []byte(`[]`)))

	assert.Equal(t, `[]`, fc.data["storefront:local_storage:cart"])
	assert.Equal(t, time.Duration(0), fc.ttls["storefront:local_storage:cart"])

	v, ok, err := st.Get(ctx, "cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, string(v))
}

func TestStorage_ErrorsAreWrapped(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")
	fc := newFakeCache()
	fc.err = boom
	st := New(fc)

	_, _, err := st.Get(ctx, "cart")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, st.Set(ctx, "cart", []byte(`[]`)), boom)
}

func TestStorage_BacksCartStore(t *testing.T) {
	ctx := context.Background()
	fc := newFakeCache()

	s, err := app.NewStore(ctx, New(fc))
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, domain.Product{ID: 1, Name: "A", Price: 1000})
	require.NoError(t, err)
	_, err = s.UpdateQuantity(ctx, 1, 150)
	require.NoError(t, err)

	assert.JSONEq(t, `[{"id":1,"name":"A","price":1000,"quantity":99}]`, fc.data["storefront:local_storage:cart"])

	s2, err := app.NewStore(ctx, New(fc))
	require.NoError(t, err)
	assert.Equal(t, 99, s2.TotalItems())
}
