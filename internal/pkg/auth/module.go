package auth

import (
	"github.com/PhamQuy48/storefront/internal/config"
	"go.uber.org/fx"
)

// Module provides authentication primitives via fx.
var Module = fx.Provide(newTokenStrategy)

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) (Strategy, error) {
	return NewStrategy(p.Config.AuthStrategy, p.Config.AuthSecret, Options{TTL: p.Config.TokenTTL})
}
