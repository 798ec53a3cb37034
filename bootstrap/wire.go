// Package bootstrap wires visitboard's dependencies and runs the HTTP server.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"visitboard/config"
	"visitboard/domain"
	"visitboard/driver"
	"visitboard/gateway"
	"visitboard/middleware"
	"visitboard/port"
	"visitboard/rest"
	"visitboard/usecase"
	"visitboard/web"
)

// Dependencies holds all application dependencies.
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	CounterDriver  port.CounterPort
	HitCounter     *usecase.HitCounterUsecase
	Summary        *usecase.SummaryUsecase
	LandingHandler *rest.LandingHandler
	TitanicHandler *rest.TitanicHandler
	HealthHandler  *rest.HealthHandler
	RateLimiter    *middleware.RateLimiter
	Renderer       *web.Renderer
	StaticHandler  http.Handler
}

// BuildDependencies constructs all application dependencies.
// Returns a cleanup function that should be deferred.
func BuildDependencies(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Dependencies, func(), error) {
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, nil, err
	}
	static, err := web.StaticHandler()
	if err != nil {
		return nil, nil, fmt.Errorf("static assets: %w", err)
	}

	counterDriver, err := NewCounterDriver(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := counterDriver.Close(); err != nil {
			log.Error("failed to close counter store", "error", err)
		}
	}

	backend := domain.CounterBackend(cfg.Counter.Backend)
	counter := gateway.NewCounterGateway(counterDriver, domain.CounterKey(cfg.Counter.Key), backend, cfg.RetryConfig(), log)
	hitCounter := usecase.NewHitCounterUsecase(counter, log)

	dataset := driver.NewCSVDatasetDriver(cfg.Dataset.Path)
	summary := usecase.NewSummaryUsecase(dataset, gateway.NewChartGateway(), cfg.Dataset.PreviewRows, log)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	return &Dependencies{
		Config:         cfg,
		Logger:         log,
		CounterDriver:  counterDriver,
		HitCounter:     hitCounter,
		Summary:        summary,
		LandingHandler: rest.NewLandingHandler(hitCounter),
		TitanicHandler: rest.NewTitanicHandler(summary),
		HealthHandler:  rest.NewHealthHandler(hitCounter),
		RateLimiter:    limiter,
		Renderer:       renderer,
		StaticHandler:  static,
	}, cleanup, nil
}

// NewCounterDriver opens the configured counter store.
func NewCounterDriver(ctx context.Context, cfg *config.Config) (port.CounterPort, error) {
	switch domain.CounterBackend(cfg.Counter.Backend) {
	case domain.CounterBackendRedis:
		return driver.NewRedisDriver(driver.RedisOptions{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}), nil
	case domain.CounterBackendSQLite:
		d, err := driver.NewSQLiteDriver(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown counter backend: %q", cfg.Counter.Backend)
	}
}
