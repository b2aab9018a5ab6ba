package logger

import (
	"log/slog"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/PhamQuy48/storefront/internal/config"
)

// Module wires slog logger for dependency injection.
var Module = fx.Provide(func(cfg *config.Config) *slog.Logger { return New(cfg.LogLevel) })

// FxEventLogger routes fx lifecycle events through the application logger.
func FxEventLogger(l *slog.Logger) fxevent.Logger {
	return &fxevent.SlogLogger{Logger: l}
}
