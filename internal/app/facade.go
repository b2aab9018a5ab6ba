package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PhamQuy48/storefront/internal/domain/model"
	"github.com/PhamQuy48/storefront/internal/stream"
	"github.com/PhamQuy48/storefront/internal/usecase"
)

// HealthChecker reports readiness of the backing store.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StorefrontFacade aggregates use cases behind the operations exposed to
// transport and background workers.
type StorefrontFacade struct {
	auth          *usecase.AuthUseCase
	orders        *usecase.OrderUseCase
	vouchers      *usecase.VoucherUseCase
	notifications *usecase.NotificationUseCase
	stock         *usecase.StockUseCase
	broker        *stream.Broker
	health        HealthChecker
}

func NewStorefrontFacade(
	auth *usecase.AuthUseCase,
	orders *usecase.OrderUseCase,
	vouchers *usecase.VoucherUseCase,
	notifications *usecase.NotificationUseCase,
	stock *usecase.StockUseCase,
	broker *stream.Broker,
	health HealthChecker,
) *StorefrontFacade {
	return &StorefrontFacade{
		auth:          auth,
		orders:        orders,
		vouchers:      vouchers,
		notifications: notifications,
		stock:         stock,
		broker:        broker,
		health:        health,
	}
}

func (f *StorefrontFacade) ParseToken(token string) (model.Identity, error) {
	return f.auth.ParseToken(token)
}

func (f *StorefrontFacade) Checkout(ctx context.Context, req model.CheckoutRequest, actor model.Identity) (*model.CheckoutResult, error) {
	return f.orders.Checkout(ctx, req, actor)
}

func (f *StorefrontFacade) Order(ctx context.Context, id uuid.UUID, actor model.Identity) (*model.Order, error) {
	return f.orders.Order(ctx, id, actor)
}

func (f *StorefrontFacade) Orders(ctx context.Context, actor model.Identity, limit int) ([]model.Order, error) {
	return f.orders.Orders(ctx, actor, limit)
}

func (f *StorefrontFacade) OrderHistory(ctx context.Context, id uuid.UUID, actor model.Identity) ([]model.OrderStatusChange, error) {
	return f.orders.History(ctx, id, actor)
}

func (f *StorefrontFacade) TransitionOrder(ctx context.Context, id uuid.UUID, status model.OrderStatus, actor model.Identity) (*model.Order, error) {
	return f.orders.Transition(ctx, id, status, actor)
}

func (f *StorefrontFacade) RecordPayment(ctx context.Context, id uuid.UUID, status model.PaymentStatus, actor model.Identity) (*model.Order, error) {
	return f.orders.RecordPayment(ctx, id, status, actor)
}

func (f *StorefrontFacade) ValidateVoucher(ctx context.Context, code string, orderTotal decimal.Decimal) (*model.VoucherQuote, error) {
	return f.vouchers.Validate(ctx, code, orderTotal)
}

func (f *StorefrontFacade) Notifications(ctx context.Context, userID int64, limit int) (*model.NotificationPage, error) {
	return f.notifications.List(ctx, userID, limit)
}

func (f *StorefrontFacade) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return f.notifications.UnreadCount(ctx, userID)
}

func (f *StorefrontFacade) MarkNotificationRead(ctx context.Context, id uuid.UUID, userID int64) (int64, error) {
	return f.notifications.MarkRead(ctx, id, userID)
}

func (f *StorefrontFacade) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	return f.notifications.MarkAllRead(ctx, userID)
}

func (f *StorefrontFacade) DeleteNotification(ctx context.Context, id uuid.UUID, userID int64) (int64, error) {
	return f.notifications.Delete(ctx, id, userID)
}

// Subscribe opens a live notification channel for userID.
func (f *StorefrontFacade) Subscribe(userID int64) (*stream.Subscription, error) {
	return f.broker.Register(userID)
}

func (f *StorefrontFacade) Unsubscribe(sub *stream.Subscription) {
	f.broker.Unregister(sub)
}

func (f *StorefrontFacade) HealthCheck(ctx context.Context) error {
	if f.health == nil {
		return nil
	}
	return f.health.HealthCheck(ctx)
}

func (f *StorefrontFacade) StockReleasesForProcessing(ctx context.Context, limit int) ([]model.StockRelease, error) {
	return f.stock.Claim(ctx, limit)
}

func (f *StorefrontFacade) ReleaseStock(ctx context.Context, rel model.StockRelease) error {
	return f.stock.Release(ctx, rel)
}
