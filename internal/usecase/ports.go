package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/PhamQuy48/storefront/internal/domain/model"
)

// NotificationPublisher pushes freshly stored notifications to live channels.
// Implementations must not block on slow consumers.
type NotificationPublisher interface {
	PublishNotification(userID int64, n model.Notification)
	PublishUnreadCount(userID int64, unread int64)
}

// OrderEventPublisher forwards accepted transitions to external consumers.
type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, ev model.OrderEvent) error
}

// StockReleaser returns reserved stock of a cancelled order to inventory.
type StockReleaser interface {
	Release(ctx context.Context, orderID uuid.UUID, lines []model.OrderLine) error
}

type nopOrderEventPublisher struct{}

func (nopOrderEventPublisher) PublishOrderEvent(context.Context, model.OrderEvent) error { return nil }
