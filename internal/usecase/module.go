package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/PhamQuy48/storefront/internal/config"
	"github.com/PhamQuy48/storefront/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewVoucherUseCase,
	newNotificationUseCase,
	newOrderUseCase,
	NewStockUseCase,
)

type notificationParams struct {
	fx.In

	Config        *config.Config
	Notifications repository.NotificationRepository
	Tx            repository.Transactor
	Publisher     NotificationPublisher `optional:"true"`
	Logger        *slog.Logger
}

func newNotificationUseCase(p notificationParams) *NotificationUseCase {
	return NewNotificationUseCase(p.Notifications, p.Tx, p.Publisher, p.Config.Locale, p.Logger)
}

type orderParams struct {
	fx.In

	Config        *config.Config
	Orders        repository.OrderRepository
	Catalog       repository.CatalogRepository
	Tx            repository.Transactor
	Vouchers      *VoucherUseCase
	Notifications *NotificationUseCase
	Events        OrderEventPublisher `optional:"true"`
	Logger        *slog.Logger
}

func newOrderUseCase(p orderParams) *OrderUseCase {
	return NewOrderUseCase(p.Orders, p.Catalog, p.Tx, p.Vouchers, p.Notifications, p.Events, OrderOptions{
		MaxAttempts:           p.Config.TransitionMaxAttempts,
		ShippingFee:           p.Config.ShippingFee,
		FreeShippingThreshold: p.Config.FreeShippingThreshold,
	}, p.Logger)
}
