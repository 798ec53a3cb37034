package bootstrap

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	appmiddleware "visitboard/middleware"
)

// NewHTTPServer creates and configures the Echo HTTP server.
func NewHTTPServer(deps *Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = deps.Renderer

	e.HTTPErrorHandler = appmiddleware.CustomHTTPErrorHandler(deps.Logger)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	if deps.Config.OTel.Enabled {
		e.Use(otelecho.Middleware(deps.Config.OTel.ServiceName))
		e.Use(appmiddleware.OTelStatusMiddleware())
	}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			switch c.Request().URL.Path {
			case "/health", "/ready", "/metrics":
				return true
			}
			return false
		},
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			deps.Logger.InfoContext(c.Request().Context(), "HTTP request completed",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
				"error", v.Error)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	registerRoutes(e, deps)

	return e
}

func registerRoutes(e *echo.Echo, deps *Dependencies) {
	e.GET("/", deps.LandingHandler.HandleHello)

	var titanicMiddleware []echo.MiddlewareFunc
	if deps.RateLimiter != nil {
		titanicMiddleware = append(titanicMiddleware, deps.RateLimiter.Middleware())
	}
	e.GET("/titanic", deps.TitanicHandler.HandleTitanic, titanicMiddleware...)

	e.GET("/health", deps.HealthHandler.HandleHealth)
	e.GET("/ready", deps.HealthHandler.HandleReady)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/static/*", echo.WrapHandler(deps.StaticHandler))
}
