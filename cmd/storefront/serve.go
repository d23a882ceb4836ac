package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/norun9/dressco-storefront/admin"
	"github.com/norun9/dressco-storefront/cartstore"
	"github.com/norun9/dressco-storefront/catalog"
	"github.com/norun9/dressco-storefront/services"
	"github.com/norun9/dressco-storefront/telemetry"
	"github.com/norun9/dressco-storefront/wishlist"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and gRPC health server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	log, err := telemetry.NewLogger(cfg.Logging, os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("initializing OpenTelemetry")
	tp, err := telemetry.InitTracerProvider(ctx, cfg.Telemetry)
	if err != nil {
		return errors.Wrap(err, "failed to initialize tracer provider")
	}
	mp, err := telemetry.InitMeterProvider(ctx, cfg.Telemetry)
	if err != nil {
		return errors.Wrap(err, "failed to initialize meter provider")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("error shutting down tracer provider")
		}
		if err := mp.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("error shutting down meter provider")
		}
	}()
	metrics, err := telemetry.NewCartMetrics(mp.Meter(cfg.Telemetry.ServiceName))
	if err != nil {
		return errors.Wrap(err, "registering cart metrics")
	}

	store, err := cartstore.New(cfg.CartStore, log)
	if err != nil {
		return err
	}
	if err := store.Initialize(ctx); err != nil {
		return errors.Wrap(err, "failed to initialize cart store")
	}
	defer store.Close()

	cat, err := catalog.LoadLocalCatalog(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	carts, err := services.NewRegistry(store, cfg.Sessions.MaxSessions, metrics, log)
	if err != nil {
		return err
	}
	if cfg.Admin.Password == "" {
		log.Warn("ADMIN_PASSWORD not set, admin login is disabled")
	}

	srv := services.NewStorefrontServer(services.Deps{
		ServiceName:  cfg.Telemetry.ServiceName,
		Carts:        carts,
		Store:        store,
		Catalog:      cat,
		Wishlist:     wishlist.NewStore(),
		Admin:        admin.NewSessionManager(cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.SessionMaxAge),
		Metrics:      metrics,
		CookieMaxAge: cfg.Sessions.CookieMaxAge,
		Log:          log,
	})
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcAddr := ":" + cfg.GRPCPort
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", grpcAddr)
	}
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
	)
	healthpb.RegisterHealthServer(grpcServer, services.NewHealthCheckService(store, log))
	reflection.Register(grpcServer)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", httpServer.Addr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "HTTP server")
		}
		return nil
	})
	g.Go(func() error {
		log.WithField("addr", grpcAddr).Info("gRPC health server listening")
		if err := grpcServer.Serve(lis); err != nil {
			return errors.Wrap(err, "gRPC server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("received shutdown signal, initiating graceful shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		grpcServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
