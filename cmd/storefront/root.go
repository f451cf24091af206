package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/storefront/internal/cart/app"
	"github.com/jcmexdev/storefront/internal/cart/storage/file"
	redisstorage "github.com/jcmexdev/storefront/internal/cart/storage/redis"
	"github.com/jcmexdev/storefront/internal/cart/storage/sqlite"
	"github.com/jcmexdev/storefront/internal/catalog"
	"github.com/jcmexdev/storefront/internal/pkg/cache"
	"github.com/jcmexdev/storefront/internal/pkg/config"
	"github.com/jcmexdev/storefront/internal/pkg/telemetry"
)

// env is what every subcommand shares once flags and config are resolved.
type env struct {
	configPath  string
	storage     string
	storagePath string
	strict      bool

	cfg    *config.Config
	logger *slog.Logger

	// lastSaved is set by backends that record write times (sqlite).
	lastSaved func(ctx context.Context, key string) (time.Time, bool, error)
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront with a durable local cart",
		Long: `storefront fetches a product catalog and keeps a shopping cart in local
storage (a JSON file, SQLite or Redis).

  storefront serve        web storefront on :8080
  storefront tui          terminal storefront
  storefront products     print the catalog
  storefront cart ...     inspect or edit the cart
  storefront config init  write the effective config file`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.load(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&e.configPath, "config", "c", defaultConfigPath(), "config file (YAML)")
	root.PersistentFlags().StringVar(&e.storage, "storage", "", "storage backend: file, sqlite or redis")
	root.PersistentFlags().StringVar(&e.storagePath, "storage-path", "", "profile directory, or a .db file for sqlite")
	root.PersistentFlags().BoolVar(&e.strict, "strict", false, "fail instead of resetting a corrupt cart snapshot")

	root.AddCommand(
		newServeCmd(e),
		newTUICmd(e),
		newProductsCmd(e),
		newCartCmd(e),
		newConfigCmd(e),
	)
	return root
}

func defaultConfigPath() string {
	return filepath.Join(config.DefaultDir(), "config.yaml")
}

// load resolves config: file, then env, then flags.
func (e *env) load(cmd *cobra.Command) error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	if e.storage != "" {
		cfg.Storage.Backend = e.storage
	}
	if e.storagePath != "" {
		cfg.Storage.Path = e.storagePath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.cfg = cfg

	level, _ := cfg.LogLevel()
	e.logger = telemetry.InitLogger(cmd.ErrOrStderr(), level)
	return nil
}

// openStorage returns the configured snapshot backend and its closer.
func (e *env) openStorage(ctx context.Context) (app.Storage, io.Closer, error) {
	switch e.cfg.Storage.Backend {
	case config.BackendSQLite:
		path := sqlitePath(e.cfg.Storage.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("storage: mkdir: %w", err)
		}
		st, err := sqlite.Open(path)
		if err != nil {
			return nil, nil, err
		}
		e.lastSaved = st.UpdatedAt
		return st, st, nil

	case config.BackendRedis:
		c := cache.NewRedisCache(e.cfg.Redis.Addr, e.cfg.Redis.ServiceName)
		if err := c.Ping(ctx); err != nil {
			_ = c.Close()
			return nil, nil, err
		}
		return redisstorage.New(c), c, nil

	default:
		st, err := file.Open(e.cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return st, closerFunc(func() error { return nil }), nil
	}
}

// sqliteDBName is the database file created inside a profile directory.
const sqliteDBName = "storefront.db"

// sqlitePath maps the storage path to a database file. A path ending in
// .db, .sqlite or .sqlite3 is used as-is; anything else is a profile
// directory, created on first use, holding storefront.db.
func sqlitePath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return path
	}
	return filepath.Join(path, sqliteDBName)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// openStore opens storage and loads the cart from it.
func (e *env) openStore(ctx context.Context) (*app.Store, io.Closer, error) {
	st, closer, err := e.openStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	policy := app.ResetOnCorrupt
	if e.strict {
		policy = app.FailOnCorrupt
	}
	store, err := app.NewStore(ctx, st,
		app.WithKey(e.cfg.Storage.Key),
		app.WithCorruptPolicy(policy),
		app.WithLogger(e.logger),
	)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return store, closer, nil
}

func (e *env) newLoader() *catalog.Loader {
	client := catalog.NewClient(e.cfg.Catalog.BaseURL,
		catalog.WithHTTPClient(&http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}),
		catalog.WithLimit(e.cfg.Catalog.Limit),
		catalog.WithTimeout(e.cfg.Catalog.Timeout),
		catalog.WithClientLogger(e.logger),
	)
	return catalog.NewLoader(client,
		catalog.WithFXRate(e.cfg.Catalog.FXRate),
		catalog.WithLoaderLogger(e.logger),
	)
}
