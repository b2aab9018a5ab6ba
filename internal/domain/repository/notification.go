package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/PhamQuy48/storefront/internal/domain/model"
)

// NotificationRepository stores per-user notification logs together with
// the unread counter. Every mutation returns the counter after it was applied.
type NotificationRepository interface {
	Append(ctx context.Context, n model.Notification) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID, userID int64) (int64, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, id uuid.UUID, userID int64) (int64, error)
	List(ctx context.Context, userID int64, limit int) ([]model.Notification, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
}
