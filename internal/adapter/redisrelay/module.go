package redisrelay

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/PhamQuy48/storefront/internal/config"
	"github.com/PhamQuy48/storefront/internal/stream"
	"github.com/PhamQuy48/storefront/internal/usecase"
)

// Module provides the notification publisher used by the use cases.
var Module = fx.Options(
	fx.Provide(
		newRelay,
		func(r *Relay) usecase.NotificationPublisher { return r },
	),
	fx.Invoke(registerLifecycle),
)

type relayParams struct {
	fx.In

	Config *config.Config
	Broker *stream.Broker
	Logger *slog.Logger
}

func newRelay(p relayParams) *Relay {
	var client redis.UniversalClient
	if p.Config.RedisAddr != "" {
		client = redis.NewClient(&redis.Options{Addr: p.Config.RedisAddr})
	}
	return New(p.Broker, client, p.Config.RedisChannel, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, relay *Relay) {
	lc.Append(fx.Hook{
		OnStart: relay.Start,
		OnStop: func(ctx context.Context) error {
			err := relay.Stop(ctx)
			if relay.client != nil {
				if cerr := relay.client.Close(); err == nil {
					err = cerr
				}
			}
			return err
		},
	})
}
