package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jcmexdev/storefront/internal/catalog"
	"github.com/jcmexdev/storefront/internal/pkg/telemetry"
	"github.com/jcmexdev/storefront/internal/storefront"
)

func newServeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web storefront and the gRPC health endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return e.serve(ctx)
		},
	}
}

func (e *env) serve(ctx context.Context) error {
	if e.cfg.Telemetry.Enabled {
		shutdown, err := telemetry.SetupTracer(ctx, e.cfg.Telemetry.ServiceName, e.cfg.Telemetry.Endpoint)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(context.WithoutCancel(ctx)); err != nil {
				e.logger.Warn("tracer shutdown", "error", err)
			}
		}()
	}

	store, closer, err := e.openStore(ctx)
	if err != nil {
		return err
	}
	defer closer.Close()

	loader := e.newLoader()
	handler, err := storefront.NewHandler(store, loader, e.logger)
	if err != nil {
		return err
	}

	srv := storefront.NewServer(storefront.NewRouter(handler, e.logger), e.logger, e.cfg.HTTP.ShutdownTimeout)
	catalogHealth := storefront.ServiceName + ".catalog"
	srv.SetServingStatus(catalogHealth, false)
	go func() {
		select {
		case <-loader.Done():
			srv.SetServingStatus(catalogHealth, loader.Snapshot().State == catalog.Ready)
		case <-ctx.Done():
		}
	}()

	e.logger.InfoContext(ctx, "storefront starting",
		"http_addr", e.cfg.HTTP.Addr,
		"grpc_addr", e.cfg.GRPC.Addr,
		"storage", e.cfg.Storage.Backend,
	)
	return srv.ListenAndServe(ctx, e.cfg.HTTP.Addr, e.cfg.GRPC.Addr)
}
