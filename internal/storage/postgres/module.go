package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/PhamQuy48/storefront/internal/config"
	"github.com/PhamQuy48/storefront/internal/domain/repository"
)

// Module wires PostgreSQL storage and repository adapters.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.Factory { return s },
		func(s *Storage) repository.Transactor { return s },
		func(s *Storage) repository.OrderRepository { return s.Orders() },
		func(s *Storage) repository.CatalogRepository { return s.Catalog() },
		func(s *Storage) repository.VoucherRepository { return s.Vouchers() },
		func(s *Storage) repository.NotificationRepository { return s.Notifications() },
		func(s *Storage) repository.StockReleaseRepository { return s.StockReleases() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
