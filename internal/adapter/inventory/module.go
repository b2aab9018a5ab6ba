package inventory

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/PhamQuy48/storefront/internal/config"
	"github.com/PhamQuy48/storefront/internal/usecase"
)

// Module exposes the inventory client to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (usecase.StockReleaser, error) {
	if p.Config.InventoryServiceAddress == "" {
		p.Logger.Info("inventory service address not set, stock releases are acknowledged locally")
		return Nop{Logger: p.Logger}, nil
	}
	return NewHTTPClient(p.Config.InventoryServiceAddress, p.Logger)
}
