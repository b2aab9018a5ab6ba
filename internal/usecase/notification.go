package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/PhamQuy48/storefront/internal/domain/errors"
	"github.com/PhamQuy48/storefront/internal/domain/model"
	"github.com/PhamQuy48/storefront/internal/domain/repository"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

// NewNotification describes a notification to append to a user's log.
type NewNotification struct {
	UserID  int64
	Title   string
	Message string
	Type    model.NotificationType
	OrderID *uuid.UUID
}

// NotificationUseCase owns the durable notification log and live delivery.
type NotificationUseCase struct {
	notifications repository.NotificationRepository
	tx            repository.Transactor
	publisher     NotificationPublisher
	locale        string
	logger        *slog.Logger
	now           func() time.Time
	newID         func() uuid.UUID

	// users serialises counter changes and their live pushes per user, so an
	// older unread_count never reaches subscribers after a newer one.
	users stripedLock
}

// NewNotificationUseCase constructs NotificationUseCase. A nil publisher
// disables live delivery.
func NewNotificationUseCase(
	notifications repository.NotificationRepository,
	tx repository.Transactor,
	publisher NotificationPublisher,
	locale string,
	logger *slog.Logger,
) *NotificationUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationUseCase{
		notifications: notifications,
		tx:            tx,
		publisher:     publisher,
		locale:        locale,
		logger:        logger,
		now:           time.Now,
		newID:         uuid.New,
	}
}

// Notify appends n to the log and hands it to live channels. Delivery
// problems never fail the call once the record is stored.
func (u *NotificationUseCase) Notify(ctx context.Context, in NewNotification) (*model.Notification, error) {
	unlock := u.lockUser(in.UserID)
	defer unlock()

	n, unread, err := u.store(ctx, in)
	if err != nil {
		return nil, err
	}
	u.deliver(n, unread)
	return n, nil
}

// HandleOrderEvent notifies the order owner about an accepted transition.
func (u *NotificationUseCase) HandleOrderEvent(ctx context.Context, ev model.OrderEvent) (*model.Notification, error) {
	unlock := u.lockUser(ev.UserID)
	defer unlock()

	n, unread, err := u.recordOrderEvent(ctx, ev)
	if err != nil {
		return nil, err
	}
	u.deliver(n, unread)
	return n, nil
}

// lockUser must be held from the counter change until its delivery. Callers
// that append inside their own transaction take it before the transaction
// starts.
func (u *NotificationUseCase) lockUser(userID int64) func() {
	return u.users.lockUser(userID)
}

// recordOrderEvent stores the notification for ev without delivering it, so
// callers can append inside their own transaction and deliver after commit.
func (u *NotificationUseCase) recordOrderEvent(ctx context.Context, ev model.OrderEvent) (*model.Notification, int64, error) {
	return u.recordMessage(ctx, ev.UserID, ev.OrderID, string(ev.To), ev.Number)
}

func (u *NotificationUseCase) recordMessage(ctx context.Context, userID int64, orderID uuid.UUID, key, number string) (*model.Notification, int64, error) {
	m := render(u.locale, key, number)
	id := orderID
	return u.store(ctx, NewNotification{
		UserID:  userID,
		Title:   m.title,
		Message: m.body,
		Type:    m.typ,
		OrderID: &id,
	})
}

func (u *NotificationUseCase) store(ctx context.Context, in NewNotification) (*model.Notification, int64, error) {
	if in.UserID <= 0 {
		return nil, 0, domainErrors.NewValidationError("userId", "must be positive")
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, 0, domainErrors.NewValidationError("title", "is required")
	}
	if in.Type == "" {
		in.Type = model.NotificationTypeInfo
	}
	if !in.Type.Valid() {
		return nil, 0, domainErrors.NewValidationError("type", fmt.Sprintf("unknown type %q", in.Type))
	}

	n := &model.Notification{
		ID:        u.newID(),
		UserID:    in.UserID,
		Title:     in.Title,
		Message:   in.Message,
		Type:      in.Type,
		OrderID:   in.OrderID,
		CreatedAt: u.now().UTC(),
	}

	unread, err := u.notifications.Append(ctx, *n)
	if err != nil {
		return nil, 0, err
	}
	return n, unread, nil
}

func (u *NotificationUseCase) deliver(n *model.Notification, unread int64) {
	if u.publisher == nil || n == nil {
		return
	}
	u.publisher.PublishNotification(n.UserID, *n)
	u.publisher.PublishUnreadCount(n.UserID, unread)
	u.logger.Debug("notification delivered",
		slog.Int64("user_id", n.UserID),
		slog.String("notification_id", n.ID.String()),
		slog.Int64("unread", unread),
	)
}

func (u *NotificationUseCase) publishCount(userID, unread int64) {
	if u.publisher == nil {
		return
	}
	u.publisher.PublishUnreadCount(userID, unread)
}

// MarkRead marks one of userID's notifications as read and returns the new
// unread count.
func (u *NotificationUseCase) MarkRead(ctx context.Context, id uuid.UUID, userID int64) (int64, error) {
	unlock := u.lockUser(userID)
	defer unlock()

	unread, err := u.notifications.MarkRead(ctx, id, userID)
	if err != nil {
		return 0, err
	}
	u.publishCount(userID, unread)
	return unread, nil
}

// MarkAllRead clears the unread count of userID.
func (u *NotificationUseCase) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	unlock := u.lockUser(userID)
	defer unlock()

	unread, err := u.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	u.publishCount(userID, unread)
	return unread, nil
}

// Delete removes one of userID's notifications.
func (u *NotificationUseCase) Delete(ctx context.Context, id uuid.UUID, userID int64) (int64, error) {
	unlock := u.lockUser(userID)
	defer unlock()

	unread, err := u.notifications.Delete(ctx, id, userID)
	if err != nil {
		return 0, err
	}
	u.publishCount(userID, unread)
	return unread, nil
}

// List returns the newest notifications of userID together with the
// authoritative unread count.
func (u *NotificationUseCase) List(ctx context.Context, userID int64, limit int) (*model.NotificationPage, error) {
	switch {
	case limit <= 0:
		limit = defaultNotificationLimit
	case limit > maxNotificationLimit:
		limit = maxNotificationLimit
	}

	var page model.NotificationPage
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		items, err := u.notifications.List(ctx, userID, limit)
		if err != nil {
			return err
		}
		unread, err := u.notifications.UnreadCount(ctx, userID)
		if err != nil {
			return err
		}
		page = model.NotificationPage{Items: items, Unread: unread}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// UnreadCount returns the unread counter of userID.
func (u *NotificationUseCase) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return u.notifications.UnreadCount(ctx, userID)
}
