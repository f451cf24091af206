package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogBody = `{"products":[
  {"id":1,"title":"Essence Mascara","price":100,"discountPercentage":20,"thumbnail":"https://cdn/1.png"},
  {"id":2,"title":"Eyeshadow Palette","price":10,"thumbnail":"https://cdn/2.png"}
],"total":2,"skip":0,"limit":12}`

func catalogServer(t *testing.T, status int) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(catalogBody))
	}))
	t.Cleanup(srv.Close)
	t.Setenv("STOREFRONT_CATALOG_URL", srv.URL)
}

// run executes the CLI against a scratch profile directory.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "missing.yaml"),
		"--storage-path", dir,
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestProducts(t *testing.T) {
	catalogServer(t, http.StatusOK)

	out, err := run(t, t.TempDir(), "products")
	require.NoError(t, err)
	assert.Contains(t, out, "Essence Mascara")
	assert.Contains(t, out, "1.960.000₫")
	assert.Contains(t, out, "2.450.000₫")
	assert.Contains(t, out, "-20%")
	assert.Contains(t, out, "245.000₫")
}

func TestProducts_FetchFailure(t *testing.T) {
	catalogServer(t, http.StatusInternalServerError)

	_, err := run(t, t.TempDir(), "products")
	require.Error(t, err)
	assert.Equal(t, "Không tải được sản phẩm 😢", err.Error())
}

func TestCartCommands(t *testing.T) {
	catalogServer(t, http.StatusOK)
	dir := t.TempDir()

	out, err := run(t, dir, "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Giỏ hàng trống!")

	_, err = run(t, dir, "cart", "add", "1")
	require.NoError(t, err)
	out, err = run(t, dir, "cart", "add", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Tổng số lượng: 2")
	assert.Contains(t, out, "Tổng tiền: 3.920.000₫")

	out, err = run(t, dir, "cart", "set", "1", "150")
	require.NoError(t, err)
	assert.Contains(t, out, "Tổng số lượng: 99")

	out, err = run(t, dir, "cart", "set", "1", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Tổng số lượng: 1")

	raw, err := os.ReadFile(filepath.Join(dir, "cart.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"name":"Essence Mascara","price":1960000,"quantity":1}]`, string(raw))

	out, err = run(t, dir, "cart", "rm", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Giỏ hàng trống!")

	_, err = run(t, dir, "cart", "add", "2")
	require.NoError(t, err)
	out, err = run(t, dir, "cart", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Giỏ hàng trống!")
}

func TestCartAdd_Errors(t *testing.T) {
	catalogServer(t, http.StatusOK)
	dir := t.TempDir()

	_, err := run(t, dir, "cart", "add", "999")
	assert.ErrorContains(t, err, "product 999 not found")

	_, err = run(t, dir, "cart", "add", "x")
	assert.ErrorContains(t, err, "invalid product id")

	_, err = run(t, dir, "cart", "set", "1", "lots")
	assert.ErrorContains(t, err, "invalid quantity")
}

func TestCartAdd_CatalogDownLeavesCart(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cart.json"),
		[]byte(`[{"id":7,"name":"Kept","price":1000,"quantity":2}]`), 0o644))
	catalogServer(t, http.StatusBadGateway)

	_, err := run(t, dir, "cart", "add", "1")
	assert.ErrorContains(t, err, "Không tải được sản phẩm")

	out, err := run(t, dir, "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Kept")
	assert.Contains(t, out, "Tổng số lượng: 2")
}

func TestCorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cart.json"), []byte(`{not json`), 0o644))

	_, err := run(t, dir, "--strict", "cart", "show")
	assert.ErrorContains(t, err, "corrupt snapshot")

	out, err := run(t, dir, "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Giỏ hàng trống!")
}

func TestSQLiteBackend(t *testing.T) {
	catalogServer(t, http.StatusOK)
	dir := t.TempDir()

	_, err := run(t, dir, "--storage", "sqlite", "cart", "add", "2")
	require.NoError(t, err)

	out, err := run(t, dir, "--storage", "sqlite", "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Eyeshadow Palette")
	assert.FileExists(t, filepath.Join(dir, "storefront.db"))
	assert.NoFileExists(t, filepath.Join(dir, "cart.json"))
}

func TestSQLiteBackend_FreshProfile(t *testing.T) {
	catalogServer(t, http.StatusOK)
	profile := filepath.Join(t.TempDir(), "profile")

	_, err := run(t, profile, "--storage", "sqlite", "cart", "add", "2")
	require.NoError(t, err)

	fi, err := os.Stat(profile)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
	assert.FileExists(t, filepath.Join(profile, "storefront.db"))

	out, err := run(t, profile, "--storage", "sqlite", "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Eyeshadow Palette")
	assert.Contains(t, out, "Lưu lúc:")

	// The file backend shares the profile directory.
	out, err = run(t, profile, "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Giỏ hàng trống!")
}

func TestSQLiteBackend_ExplicitFile(t *testing.T) {
	catalogServer(t, http.StatusOK)
	dir := t.TempDir()
	db := filepath.Join(dir, "data", "cart.db")

	_, err := run(t, dir, "--storage", "sqlite", "--storage-path", db, "cart", "add", "1")
	require.NoError(t, err)
	assert.FileExists(t, db)
}

func TestSQLitePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/home/u/.storefront", "/home/u/.storefront/storefront.db"},
		{"/data/cart.db", "/data/cart.db"},
		{"/data/cart.SQLITE", "/data/cart.SQLITE"},
		{"/data/cart.sqlite3", "/data/cart.sqlite3"},
		{"relative", "relative/storefront.db"},
	}
	for _, tt := range tests {
		assert.Equal(t, filepath.FromSlash(tt.want), sqlitePath(filepath.FromSlash(tt.in)), tt.in)
	}
}

func TestCartShow_FileBackendHasNoSaveTime(t *testing.T) {
	out, err := run(t, t.TempDir(), "cart", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "Lưu lúc:")
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.yaml")

	out, err := run(t, dir, "--storage", "sqlite", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "sqlite")

	_, err = run(t, dir, "config", "init")
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, dir, "config", "init", "--force")
	require.NoError(t, err)
}

func TestInvalidBackend(t *testing.T) {
	_, err := run(t, t.TempDir(), "--storage", "s3", "cart", "show")
	assert.ErrorContains(t, err, "invalid storage backend")
}
