package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PhamQuy48/storefront/internal/domain/model"
	"github.com/PhamQuy48/storefront/internal/stream"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	ParseToken(token string) (model.Identity, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	Checkout(ctx context.Context, req model.CheckoutRequest, actor model.Identity) (*model.CheckoutResult, error)
	Order(ctx context.Context, id uuid.UUID, actor model.Identity) (*model.Order, error)
	Orders(ctx context.Context, actor model.Identity, limit int) ([]model.Order, error)
	OrderHistory(ctx context.Context, id uuid.UUID, actor model.Identity) ([]model.OrderStatusChange, error)
	TransitionOrder(ctx context.Context, id uuid.UUID, status model.OrderStatus, actor model.Identity) (*model.Order, error)
	RecordPayment(ctx context.Context, id uuid.UUID, status model.PaymentStatus, actor model.Identity) (*model.Order, error)
}

// VoucherFacade quotes vouchers without redeeming them.
type VoucherFacade interface {
	ValidateVoucher(ctx context.Context, code string, orderTotal decimal.Decimal) (*model.VoucherQuote, error)
}

// NotificationFacade provides the notification log of the caller.
type NotificationFacade interface {
	Notifications(ctx context.Context, userID int64, limit int) (*model.NotificationPage, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkNotificationRead(ctx context.Context, id uuid.UUID, userID int64) (int64, error)
	MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error)
	DeleteNotification(ctx context.Context, id uuid.UUID, userID int64) (int64, error)
}

// StreamFacade opens live notification channels.
type StreamFacade interface {
	Subscribe(userID int64) (*stream.Subscription, error)
	Unsubscribe(sub *stream.Subscription)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
}

// HealthFacade reports readiness.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	AuthFacade
	OrderFacade
	VoucherFacade
	NotificationFacade
	StreamFacade
	HealthFacade
}
