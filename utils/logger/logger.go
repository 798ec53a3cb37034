// Package logger provides structured logging for visitboard.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log/global"
)

// Logger is the global logger instance
var Logger *slog.Logger

// Options controls how the root logger is built.
type Options struct {
	Level string
	// Format is "json" (default) or "text".
	Format string
	// OTel also exports records through the global OpenTelemetry logger provider.
	OTel        bool
	ServiceName string
	Output      io.Writer
}

// Init builds the root logger, installs it as the slog default and returns it.
func Init(opts Options) *slog.Logger {
	Logger = New(opts)
	slog.SetDefault(Logger)

	Logger.Info("Logger initialized",
		"level", parseLevel(opts.Level).String(),
		"otel_enabled", opts.OTel,
	)

	return Logger
}

// New builds a logger without touching global state.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	level := parseLevel(opts.Level)

	handler := NewTraceContextHandler(newBaseHandler(out, opts.Format, level))
	if opts.OTel {
		name := opts.ServiceName
		if name == "" {
			name = "visitboard"
		}
		otelHandler := otelslog.NewHandler(name,
			otelslog.WithLoggerProvider(global.GetLoggerProvider()),
		)
		return slog.New(NewMultiHandler(handler, otelHandler))
	}

	return slog.New(handler)
}

func newBaseHandler(out io.Writer, format string, level slog.Level) slog.Handler {
	hopts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "text") {
		return slog.NewTextHandler(out, hopts)
	}
	return slog.NewJSONHandler(out, hopts)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
