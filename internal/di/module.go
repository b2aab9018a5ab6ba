package di

import (
	"go.uber.org/fx"

	"github.com/PhamQuy48/storefront/internal/adapter/eventbus"
	"github.com/PhamQuy48/storefront/internal/adapter/inventory"
	"github.com/PhamQuy48/storefront/internal/adapter/redisrelay"
	"github.com/PhamQuy48/storefront/internal/app"
	"github.com/PhamQuy48/storefront/internal/config"
	"github.com/PhamQuy48/storefront/internal/logger"
	"github.com/PhamQuy48/storefront/internal/pkg/auth"
	"github.com/PhamQuy48/storefront/internal/server/http/handlers"
	"github.com/PhamQuy48/storefront/internal/server/http/router"
	"github.com/PhamQuy48/storefront/internal/storage/postgres"
	"github.com/PhamQuy48/storefront/internal/stream"
	"github.com/PhamQuy48/storefront/internal/usecase"
)

// Module assembles the storefront graph. opts are appended last so callers
// can replace any component.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		stream.Module,
		redisrelay.Module,
		eventbus.Module,
		inventory.Module,
		usecase.Module,
		fx.Provide(
			func(s *postgres.Storage) app.HealthChecker { return s },
			func(f *app.StorefrontFacade) handlers.StorefrontFacade { return f },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
