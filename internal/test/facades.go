package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PhamQuy48/storefront/internal/domain/model"
	"github.com/PhamQuy48/storefront/internal/stream"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CheckoutFn   func(context.Context, model.CheckoutRequest, model.Identity) (*model.CheckoutResult, error)
	OrderFn      func(context.Context, uuid.UUID, model.Identity) (*model.Order, error)
	OrdersFn     func(context.Context, model.Identity, int) ([]model.Order, error)
	HistoryFn    func(context.Context, uuid.UUID, model.Identity) ([]model.OrderStatusChange, error)
	TransitionFn func(context.Context, uuid.UUID, model.OrderStatus, model.Identity) (*model.Order, error)
	PaymentFn    func(context.Context, uuid.UUID, model.PaymentStatus, model.Identity) (*model.Order, error)
}

// Checkout delegates to provided function or echoes a pending order.
func (s OrderFacadeStub) Checkout(ctx context.Context, req model.CheckoutRequest, actor model.Identity) (*model.CheckoutResult, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, req, actor)
	}
	return &model.CheckoutResult{Order: &model.Order{
		ID:            uuid.New(),
		UserID:        actor.UserID,
		Status:        model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusPending,
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
	}}, nil
}

// Order returns configured order.
func (s OrderFacadeStub) Order(ctx context.Context, id uuid.UUID, actor model.Identity) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id, actor)
	}
	return &model.Order{ID: id, UserID: actor.UserID, Status: model.OrderStatusPending}, nil
}

// Orders returns predefined orders for the caller.
func (s OrderFacadeStub) Orders(ctx context.Context, actor model.Identity, limit int) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, actor, limit)
	}
	return []model.Order{{ID: uuid.New(), UserID: actor.UserID, Status: model.OrderStatusPending}}, nil
}

// OrderHistory returns configured audit trail.
func (s OrderFacadeStub) OrderHistory(ctx context.Context, id uuid.UUID, actor model.Identity) ([]model.OrderStatusChange, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, id, actor)
	}
	return nil, nil
}

// TransitionOrder delegates to provided function or applies status as is.
func (s OrderFacadeStub) TransitionOrder(ctx context.Context, id uuid.UUID, status model.OrderStatus, actor model.Identity) (*model.Order, error) {
	if s.TransitionFn != nil {
		return s.TransitionFn(ctx, id, status, actor)
	}
	return &model.Order{ID: id, Status: status}, nil
}

// RecordPayment delegates to provided function or applies status as is.
func (s OrderFacadeStub) RecordPayment(ctx context.Context, id uuid.UUID, status model.PaymentStatus, actor model.Identity) (*model.Order, error) {
	if s.PaymentFn != nil {
		return s.PaymentFn(ctx, id, status, actor)
	}
	return &model.Order{ID: id, PaymentStatus: status}, nil
}

// VoucherFacadeStub simulates voucher quotes.
type VoucherFacadeStub struct {
	ValidateFn func(context.Context, string, decimal.Decimal) (*model.VoucherQuote, error)
}

// ValidateVoucher returns configured quote or a zero discount.
func (s VoucherFacadeStub) ValidateVoucher(ctx context.Context, code string, total decimal.Decimal) (*model.VoucherQuote, error) {
	if s.ValidateFn != nil {
		return s.ValidateFn(ctx, code, total)
	}
	return &model.VoucherQuote{Voucher: model.Voucher{Code: code}}, nil
}

// NotificationFacadeStub simulates the notification log.
type NotificationFacadeStub struct {
	ListFn    func(context.Context, int64, int) (*model.NotificationPage, error)
	UnreadFn  func(context.Context, int64) (int64, error)
	ReadFn    func(context.Context, uuid.UUID, int64) (int64, error)
	ReadAllFn func(context.Context, int64) (int64, error)
	DeleteFn  func(context.Context, uuid.UUID, int64) (int64, error)
}

// Notifications returns configured page or an empty one.
func (s NotificationFacadeStub) Notifications(ctx context.Context, userID int64, limit int) (*model.NotificationPage, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, userID, limit)
	}
	return &model.NotificationPage{}, nil
}

// UnreadCount returns configured counter.
func (s NotificationFacadeStub) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	if s.UnreadFn != nil {
		return s.UnreadFn(ctx, userID)
	}
	return 0, nil
}

// MarkNotificationRead executes configured handler.
func (s NotificationFacadeStub) MarkNotificationRead(ctx context.Context, id uuid.UUID, userID int64) (int64, error) {
	if s.ReadFn != nil {
		return s.ReadFn(ctx, id, userID)
	}
	return 0, nil
}

// MarkAllNotificationsRead executes configured handler.
func (s NotificationFacadeStub) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	if s.ReadAllFn != nil {
		return s.ReadAllFn(ctx, userID)
	}
	return 0, nil
}

// DeleteNotification executes configured handler.
func (s NotificationFacadeStub) DeleteNotification(ctx context.Context, id uuid.UUID, userID int64) (int64, error) {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id, userID)
	}
	return 0, nil
}

// StreamFacadeStub registers subscriptions on a real broker.
type StreamFacadeStub struct {
	Broker *stream.Broker
}

// Subscribe registers userID on the broker.
func (s StreamFacadeStub) Subscribe(userID int64) (*stream.Subscription, error) {
	return s.Broker.Register(userID)
}

// Unsubscribe removes sub from the broker.
func (s StreamFacadeStub) Unsubscribe(sub *stream.Subscription) {
	s.Broker.Unregister(sub)
}

// StorefrontFacadeStub combines the handler facade stubs.
type StorefrontFacadeStub struct {
	TokenParserStub
	OrderFacadeStub
	VoucherFacadeStub
	NotificationFacadeStub
	StreamFacadeStub
	HealthErr error
}

// HealthCheck returns configured error.
func (s StorefrontFacadeStub) HealthCheck(context.Context) error {
	return s.HealthErr
}

// StockFacadeStub mimics worker interactions with the storefront facade.
type StockFacadeStub struct {
	Batches   [][]model.StockRelease
	ClaimFn   func(context.Context, int) ([]model.StockRelease, error)
	ReleaseFn func(context.Context, model.StockRelease) error
	Released  []model.StockRelease
	mu        sync.Mutex
	calls     int32
}

// Lock exposes internal mutex for external synchronization.
func (s *StockFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *StockFacadeStub) Unlock() { s.mu.Unlock() }

// StockReleasesForProcessing returns batches from configured queue.
func (s *StockFacadeStub) StockReleasesForProcessing(ctx context.Context, limit int) ([]model.StockRelease, error) {
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.calls, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// ReleaseStock records successful releases.
func (s *StockFacadeStub) ReleaseStock(ctx context.Context, rel model.StockRelease) error {
	if s.ReleaseFn != nil {
		if err := s.ReleaseFn(ctx, rel); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Released = append(s.Released, rel)
	return nil
}
