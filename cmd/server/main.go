package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fr0stylo/geocatalog"
	"github.com/fr0stylo/geocatalog/internal/config"
	"github.com/fr0stylo/geocatalog/internal/featureserver"
	"github.com/fr0stylo/geocatalog/internal/observability"
	"github.com/fr0stylo/geocatalog/internal/outputs/geojson"
	"github.com/fr0stylo/geocatalog/internal/outputs/geoservices"
	"github.com/fr0stylo/geocatalog/internal/providers/filegeojson"
	"github.com/fr0stylo/geocatalog/internal/server"
	"github.com/fr0stylo/geocatalog/internal/server/routes"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := observability.NewLogger(os.Stdout, cfg.SlogLevel(), cfg.Logging.Format)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.SetupOpenTelemetry(ctx, log, observability.OpenTelemetryConfig{
		Enabled:           cfg.Observability.Enabled,
		OTLPEndpoint:      cfg.Observability.OTLPEndpoint,
		OTLPTraceHeaders:  cfg.Observability.OTLPTraceHeaders,
		OTLPMetricHeaders: cfg.Observability.OTLPMetricHeaders,
		ServiceName:       cfg.Observability.ServiceName,
		ServiceVer:        cfg.Observability.ServiceVer,
		SamplingRatio:     cfg.Observability.SamplingRatio,
		MetricsConsole:    cfg.Observability.MetricsConsole,
		DataDir:           cfg.Data.Dir,
		Providers:         []string{filegeojson.Name},
	})
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error("Failed to flush telemetry", "error", err)
		}
	}()

	public, err := geocatalog.PublicAssets()
	if err != nil {
		return fmt.Errorf("open public assets: %w", err)
	}

	host := featureserver.NewHost(log)
	if err := host.RegisterOutput(geoservices.New()); err != nil {
		return err
	}
	if err := host.RegisterOutput(geojson.New()); err != nil {
		return err
	}
	if err := host.RegisterProvider(filegeojson.New(cfg.Data.Dir, log)); err != nil {
		return err
	}

	srv := server.New(log, server.Options{
		Tracing:     cfg.Observability.Enabled,
		ServiceName: cfg.Observability.ServiceName,
	})
	srv.RegisterRouter(routes.NewIndexRoutes(public))
	srv.RegisterRouter(routes.NewCatalogRoutes(cfg.Data.Dir, log))
	srv.RegisterRouter(host)

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server",
			"port", cfg.Server.Port,
			"environment", cfg.Environment,
			"data_dir", cfg.Data.Dir,
			"providers", host.Providers(),
			"outputs", host.Outputs(),
		)
		errCh <- srv.Start(cfg.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
