package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"visitboard/config"
	"visitboard/utils/logger"
	"visitboard/utils/otel"
)

const (
	serverShutdownTimeout = 10 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// everything down gracefully.
func Run(ctx context.Context, cfg *config.Config) error {
	otelShutdown, err := otel.InitProvider(ctx, otel.Config{
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: Version,
		OTLPEndpoint:   cfg.OTel.Endpoint,
		Enabled:        cfg.OTel.Enabled,
		SampleRatio:    cfg.OTel.SampleRatio,
	})
	if err != nil {
		fmt.Printf("Failed to initialize OpenTelemetry: %v\n", err)
		cfg.OTel.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}

	log := logger.Init(logger.Options{
		Level:       cfg.Server.LogLevel,
		Format:      cfg.Server.LogFormat,
		OTel:        cfg.OTel.Enabled,
		ServiceName: cfg.OTel.ServiceName,
	})

	log.Info("Starting visitboard",
		"version", Version,
		"addr", cfg.Addr(),
		"counter_backend", cfg.Counter.Backend,
		"dataset", cfg.Dataset.Path,
		"otel_enabled", cfg.OTel.Enabled)

	deps, cleanup, err := BuildDependencies(ctx, cfg, log)
	if err != nil {
		_ = otelShutdown(context.Background())
		return fmt.Errorf("failed to build dependencies: %w", err)
	}
	defer cleanup()

	if err := deps.HitCounter.Ready(ctx); err != nil {
		log.Warn("Counter store is not reachable yet", "error", err)
	}

	e := NewHTTPServer(deps)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("HTTP server listening", "addr", cfg.Addr())
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if deps.RateLimiter != nil {
		g.Go(func() error {
			return deps.RateLimiter.Run(gCtx)
		})
	}

	g.Go(func() error {
		<-gCtx.Done()
		log.Info("Shutting down visitboard")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
		defer cancel()
		return otelShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("visitboard stopped")
	return nil
}
