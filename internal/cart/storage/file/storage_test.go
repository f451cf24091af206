package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/cart/app"
	"github.com/jcmexdev/storefront/internal/cart/domain"
)

var _ app.Storage = (*Storage)(nil)

func TestStorage_GetMissing(t *testing.T) {
	st := New(memfs.New())
	v, ok, err := st.Get(context.Background(), "cart")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestStorage_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	st := New(memfs.New())

	require.NoError(t, st.Set(ctx, "cart", []byte(`[1]`)))
	require.NoError(t, st.Set(ctx, "cart", []byte(`[2]`)))

	v, ok, err := st.Get(ctx, "cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[2]`, string(v))
}

func TestStorage_ReadsExistingFile(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "cart.json", []byte(`[]`), 0o644))

	v, ok, err := New(fs).Get(context.Background(), "cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, string(v))
}

func TestOpen_PersistsAcrossStores(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "profile")

	st, err := Open(dir)
	require.NoError(t, err)

	s, err := app.NewStore(ctx, st)
	require.NoError(t, err)
	_, err = s.AddToCart(ctx, domain.Product{ID: 9, Name: "Tai nghe", Price: 490000})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "cart.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":9,"name":"Tai nghe","price":490000,"quantity":1}]`, string(raw))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "cart.json", entries[0].Name())

	st2, err := Open(dir)
	require.NoError(t, err)
	s2, err := app.NewStore(ctx, st2)
	require.NoError(t, err)
	assert.Equal(t, s.Items(), s2.Items())
}
