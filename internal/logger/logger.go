package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/momo-payment-gateway/internal/config"
)

// NewLogger builds the process-wide slog.Logger. Output is JSON on stdout;
// every line carries the service name and environment so the gateway and the
// processor can share one log pipeline.
func NewLogger(cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.Logging.Level)

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
		// Source locations only at debug; they are noise in production logs
		AddSource: level == slog.LevelDebug,
	})

	log := slog.New(handler).With(
		"service", cfg.Application.Name,
		"env", cfg.Application.Env,
	)
	log.Info("Logger initialized", "level", level.String())

	return log
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
