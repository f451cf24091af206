package catalog

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	calls   atomic.Int32
	release chan struct{}
	dtos    []ProductDTO
	err     error
}

func (f *fakeFetcher) FetchProducts(ctx context.Context) ([]ProductDTO, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	return f.dtos, f.err
}

func TestLoader_InitialStateIsLoading(t *testing.T) {
	l := NewLoader(&fakeFetcher{})
	snap := l.Snapshot()
	assert.Equal(t, Loading, snap.State)
	assert.Empty(t, snap.Products)
	assert.Empty(t, snap.Message)
}

func TestLoader_Ready(t *testing.T) {
	f := &fakeFetcher{dtos: []ProductDTO{{ID: 1, Title: "Phone", Price: 100, DiscountPercentage: 20}}}
	l := NewLoader(f)

	snap, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Ready, snap.State)
	require.Len(t, snap.Products, 1)
	assert.Equal(t, int64(1960000), snap.Products[0].Price)
	assert.Equal(t, int64(2450000), snap.Products[0].OriginalPrice)

	p, ok := l.Lookup(1)
	assert.True(t, ok)
	assert.Equal(t, "Phone", p.Name)
	_, ok = l.Lookup(2)
	assert.False(t, ok)
}

func TestLoader_Error(t *testing.T) {
	l := NewLoader(&fakeFetcher{err: ErrFetchFailed})

	snap, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Error, snap.State)
	assert.Equal(t, "Không tải được sản phẩm 😢", snap.Message)
	assert.NotNil(t, snap.Products)
	assert.Empty(t, snap.Products)
}

func TestLoader_StartsOnce(t *testing.T) {
	f := &fakeFetcher{release: make(chan struct{})}
	l := NewLoader(f)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Start(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, Loading, l.Snapshot().State)
	close(f.release)
	require.NoError(t, l.Wait(context.Background()))

	// Terminal: further starts never refetch.
	l.Start(context.Background())
	assert.Equal(t, int32(1), f.calls.Load())
	assert.Equal(t, Ready, l.Snapshot().State)
}

func TestLoader_DetachedFromCaller(t *testing.T) {
	f := &fakeFetcher{release: make(chan struct{})}
	l := NewLoader(f)

	ctx, cancel := context.WithCancel(context.Background())
	l.Start(ctx)
	cancel()

	close(f.release)
	require.NoError(t, l.Wait(context.Background()))
	assert.Equal(t, Ready, l.Snapshot().State)
}

func TestLoader_WaitHonoursContext(t *testing.T) {
	f := &fakeFetcher{release: make(chan struct{})}
	l := NewLoader(f)
	l.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.Wait(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	close(f.release)
	<-l.Done()
}

func TestLoader_SnapshotIsACopy(t *testing.T) {
	l := NewLoader(&fakeFetcher{dtos: []ProductDTO{{ID: 1, Title: "A"}}})
	snap, err := l.Load(context.Background())
	require.NoError(t, err)

	snap.Products[0].Name = "mutated"
	p, _ := l.Lookup(1)
	assert.Equal(t, "A", p.Name)
}

func TestLoader_WithClient_FetchFailure(t *testing.T) {
	srv, _ := newCatalogServer(t, http.StatusServiceUnavailable, ``)
	l := NewLoader(NewClient(srv.URL, WithHTTPClient(srv.Client())), WithFXRate(1))

	snap, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Error, snap.State)
	assert.Equal(t, ErrorMessage, snap.Message)
}

func TestLoader_WithClient_BodyWithoutProducts(t *testing.T) {
	for _, body := range []string{`{}`, `{"products":null}`, `{"message":"Too many requests"}`} {
		t.Run(body, func(t *testing.T) {
			srv, _ := newCatalogServer(t, http.StatusOK, body)
			l := NewLoader(NewClient(srv.URL, WithHTTPClient(srv.Client())))

			snap, err := l.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, Error, snap.State)
			assert.Equal(t, ErrorMessage, snap.Message)
			assert.Empty(t, snap.Products)
		})
	}
}

func TestLoader_WithClient_EmptyCatalogIsReady(t *testing.T) {
	srv, _ := newCatalogServer(t, http.StatusOK, `{"products":[],"total":0}`)
	l := NewLoader(NewClient(srv.URL, WithHTTPClient(srv.Client())))

	snap, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Ready, snap.State)
	assert.NotNil(t, snap.Products)
	assert.Empty(t, snap.Products)
}
