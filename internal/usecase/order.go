package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/PhamQuy48/storefront/internal/domain/errors"
	"github.com/PhamQuy48/storefront/internal/domain/model"
	"github.com/PhamQuy48/storefront/internal/domain/repository"
)

const (
	defaultOrderLimit = 50
	maxOrderLimit     = 200
)

// OrderOptions tunes pricing and contention handling.
type OrderOptions struct {
	MaxAttempts           int
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// OrderUseCase is the only writer of order status and payment status.
type OrderUseCase struct {
	orders        repository.OrderRepository
	catalog       repository.CatalogRepository
	tx            repository.Transactor
	vouchers      *VoucherUseCase
	notifications *NotificationUseCase
	events        OrderEventPublisher
	opts          OrderOptions
	locks         stripedLock
	logger        *slog.Logger
	now           func() time.Time
	newID         func() uuid.UUID
}

// NewOrderUseCase constructs OrderUseCase. A nil events publisher disables
// forwarding of order events.
func NewOrderUseCase(
	orders repository.OrderRepository,
	catalog repository.CatalogRepository,
	tx repository.Transactor,
	vouchers *VoucherUseCase,
	notifications *NotificationUseCase,
	events OrderEventPublisher,
	opts OrderOptions,
	logger *slog.Logger,
) *OrderUseCase {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if events == nil {
		events = nopOrderEventPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderUseCase{
		orders:        orders,
		catalog:       catalog,
		tx:            tx,
		vouchers:      vouchers,
		notifications: notifications,
		events:        events,
		opts:          opts,
		logger:        logger,
		now:           time.Now,
		newID:         uuid.New,
	}
}

// Order returns order id if actor may see it.
func (u *OrderUseCase) Order(ctx context.Context, id uuid.UUID, actor model.Identity) (*model.Order, error) {
	return u.owned(ctx, id, actor)
}

// Orders lists the caller's orders, newest first. Staff see every order.
func (u *OrderUseCase) Orders(ctx context.Context, actor model.Identity, limit int) ([]model.Order, error) {
	switch {
	case limit <= 0:
		limit = defaultOrderLimit
	case limit > maxOrderLimit:
		limit = maxOrderLimit
	}
	if actor.IsStaff() {
		return u.orders.ListAll(ctx, limit)
	}
	return u.orders.ListByUser(ctx, actor.UserID, limit)
}

// History returns the audit trail of order id.
func (u *OrderUseCase) History(ctx context.Context, id uuid.UUID, actor model.Identity) ([]model.OrderStatusChange, error) {
	if _, err := u.owned(ctx, id, actor); err != nil {
		return nil, err
	}
	return u.orders.History(ctx, id)
}

func (u *OrderUseCase) owned(ctx context.Context, id uuid.UUID, actor model.Identity) (*model.Order, error) {
	order, err := u.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && order.UserID != actor.UserID {
		return nil, domainErrors.ErrForbidden
	}
	return order, nil
}

// Transition moves order id towards requested on behalf of actor. The
// status write is a compare-and-set against the status the decision was
// based on; lost races are re-evaluated up to MaxAttempts times.
func (u *OrderUseCase) Transition(ctx context.Context, id uuid.UUID, requested model.OrderStatus, actor model.Identity) (*model.Order, error) {
	if !requested.Valid() {
		return nil, domainErrors.NewValidationError("status", fmt.Sprintf("unknown status %q", requested))
	}

	unlock := u.locks.lock(id)
	defer unlock()

	for attempt := 1; attempt <= u.opts.MaxAttempts; attempt++ {
		order, err := u.owned(ctx, id, actor)
		if err != nil {
			return nil, err
		}

		p, err := planTransition(order, requested, actor)
		if err != nil {
			return nil, err
		}

		ev := model.OrderEvent{
			OrderID:       order.ID,
			Number:        order.Number,
			UserID:        order.UserID,
			From:          p.from,
			To:            p.to,
			PaymentStatus: p.paymentStatus,
			Actor:         actor,
		}

		var (
			n      *model.Notification
			unread int64
		)
		unlockUser := u.notifications.lockUser(order.UserID)
		err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
			updatedAt, err := u.orders.UpdateStatus(ctx, model.StatusChange{
				OrderID:       order.ID,
				From:          p.from,
				To:            p.to,
				PaymentStatus: p.paymentStatus,
				Actor:         actor,
				ReleaseStock:  p.releasesStock(),
			})
			if err != nil {
				return err
			}
			ev.OccurredAt = updatedAt
			n, unread, err = u.notifications.recordOrderEvent(ctx, ev)
			return err
		})
		if errors.Is(err, domainErrors.ErrConflict) {
			u.logger.Debug("order status changed concurrently",
				slog.String("order_id", id.String()),
				slog.Int("attempt", attempt),
			)
			unlockUser()
			continue
		}
		if err != nil {
			unlockUser()
			return nil, err
		}

		u.notifications.deliver(n, unread)
		unlockUser()
		u.publishEvent(ctx, ev)

		order.Status = p.to
		order.PaymentStatus = p.paymentStatus
		order.UpdatedAt = ev.OccurredAt
		u.logger.Info("order status changed",
			slog.String("order_id", id.String()),
			slog.String("from", string(p.from)),
			slog.String("to", string(p.to)),
			slog.Int64("actor_id", actor.UserID),
		)
		return order, nil
	}

	return nil, fmt.Errorf("transition order %s: %w", id, domainErrors.ErrConflict)
}

// RecordPayment stores the settlement outcome reported for a pending payment.
func (u *OrderUseCase) RecordPayment(ctx context.Context, id uuid.UUID, status model.PaymentStatus, actor model.Identity) (*model.Order, error) {
	if !actor.IsStaff() {
		return nil, domainErrors.ErrForbidden
	}
	if status != model.PaymentStatusPaid && status != model.PaymentStatusFailed {
		return nil, domainErrors.NewValidationError("paymentStatus", "must be PAID or FAILED")
	}

	unlock := u.locks.lock(id)
	defer unlock()

	order, err := u.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() || order.PaymentStatus != model.PaymentStatusPending {
		return nil, fmt.Errorf("payment of order %s is %s: %w", order.Number, order.PaymentStatus, domainErrors.ErrConflict)
	}

	var (
		n      *model.Notification
		unread int64
	)
	unlockUser := u.notifications.lockUser(order.UserID)
	err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
		updatedAt, err := u.orders.UpdatePaymentStatus(ctx, id, model.PaymentStatusPending, status)
		if err != nil {
			return err
		}
		order.UpdatedAt = updatedAt
		n, unread, err = u.notifications.recordMessage(ctx, order.UserID, order.ID, "payment."+string(status), order.Number)
		return err
	})
	if err != nil {
		unlockUser()
		return nil, err
	}

	u.notifications.deliver(n, unread)
	unlockUser()
	order.PaymentStatus = status
	return order, nil
}

func (u *OrderUseCase) publishEvent(ctx context.Context, ev model.OrderEvent) {
	if err := u.events.PublishOrderEvent(ctx, ev); err != nil {
		u.logger.Warn("failed to publish order event",
			slog.String("order_id", ev.OrderID.String()),
			slog.String("to", string(ev.To)),
			slog.Any("error", err),
		)
	}
}
