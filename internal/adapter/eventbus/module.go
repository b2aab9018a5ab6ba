package eventbus

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/PhamQuy48/storefront/internal/config"
	"github.com/PhamQuy48/storefront/internal/usecase"
)

// Module provides the order event publisher.
var Module = fx.Provide(newEventPublisher)

type publisherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newEventPublisher(p publisherParams) (usecase.OrderEventPublisher, error) {
	if p.Config.AMQPURL == "" {
		p.Logger.Info("amqp url not set, order events stay in process")
		return Nop{}, nil
	}

	pub, err := Dial(p.Config.AMQPURL, p.Config.AMQPExchange, p.Logger)
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return pub.Close()
		},
	})
	return pub, nil
}
