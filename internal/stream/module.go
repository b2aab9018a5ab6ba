package stream

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/PhamQuy48/storefront/internal/config"
)

// Module provides the process-wide notification broker.
var Module = fx.Options(
	fx.Provide(newBroker),
	fx.Invoke(registerLifecycle),
)

type brokerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newBroker(p brokerParams) *Broker {
	return NewBroker(p.Config.StreamBuffer, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, broker *Broker) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			broker.Close()
			return nil
		},
	})
}
