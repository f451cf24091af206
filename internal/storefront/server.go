package storefront

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/jcmexdev/storefront/internal/pkg/interceptors"
)

// ServiceName is the gRPC health service reported for the storefront.
const ServiceName = "storefront"

// Server runs the web storefront and, optionally, a gRPC health endpoint.
type Server struct {
	httpSrv         *http.Server
	grpcSrv         *grpc.Server
	health          *health.Server
	shutdownTimeout time.Duration
	log             *slog.Logger
}

func NewServer(handler http.Handler, logger *slog.Logger, shutdownTimeout time.Duration) *Server {
	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	grpcSrv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			interceptors.RequestIDServerInterceptor(),
			interceptors.LoggingServerInterceptor(logger),
		),
	)
	healthpb.RegisterHealthServer(grpcSrv, hs)
	reflection.Register(grpcSrv)

	return &Server{
		httpSrv: &http.Server{
			Handler:           otelhttp.NewHandler(handler, ServiceName),
			ReadHeaderTimeout: 10 * time.Second,
		},
		grpcSrv:         grpcSrv,
		health:          hs,
		shutdownTimeout: shutdownTimeout,
		log:             logger,
	}
}

// SetServingStatus reports a sub-service (e.g. "storefront.catalog") on
// the health endpoint.
func (s *Server) SetServingStatus(service string, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, status)
}

// ListenAndServe binds both addresses and serves until ctx is done. An
// empty grpcAddr disables the gRPC server.
func (s *Server) ListenAndServe(ctx context.Context, httpAddr, grpcAddr string) error {
	httpLn, err := net.Listen("tcp", httpAddr)
	if err != nil {
		return fmt.Errorf("storefront: listen http %s: %w", httpAddr, err)
	}

	var grpcLn net.Listener
	if grpcAddr != "" {
		grpcLn, err = net.Listen("tcp", grpcAddr)
		if err != nil {
			_ = httpLn.Close()
			return fmt.Errorf("storefront: listen grpc %s: %w", grpcAddr, err)
		}
	}
	return s.Serve(ctx, httpLn, grpcLn)
}

// Serve blocks until ctx is done or a server fails, then shuts both down
// within the shutdown timeout. grpcLn may be nil.
func (s *Server) Serve(ctx context.Context, httpLn, grpcLn net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.InfoContext(ctx, "http server listening", "addr", httpLn.Addr().String())
		if err := s.httpSrv.Serve(httpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("storefront: http serve: %w", err)
		}
		return nil
	})

	if grpcLn != nil {
		g.Go(func() error {
			s.log.InfoContext(ctx, "grpc health server listening", "addr", grpcLn.Addr().String())
			if err := s.grpcSrv.Serve(grpcLn); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("storefront: grpc serve: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.log.InfoContext(ctx, "shutting down", "timeout", s.shutdownTimeout)

		s.health.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()

		err := s.httpSrv.Shutdown(shutdownCtx)
		s.grpcSrv.GracefulStop()
		if err != nil {
			return fmt.Errorf("storefront: http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
