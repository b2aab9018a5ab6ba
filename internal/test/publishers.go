package test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/PhamQuy48/storefront/internal/domain/model"
)

// UnreadCountCall is a recorded PublishUnreadCount invocation.
type UnreadCountCall struct {
	UserID int64
	Unread int64
}

// PublisherRecorder captures live notification deliveries.
type PublisherRecorder struct {
	mu            sync.Mutex
	notifications []model.Notification
	counts        []UnreadCountCall
}

// PublishNotification records n.
func (p *PublisherRecorder) PublishNotification(_ int64, n model.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifications = append(p.notifications, n)
}

// PublishUnreadCount records the counter push.
func (p *PublisherRecorder) PublishUnreadCount(userID int64, unread int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts = append(p.counts, UnreadCountCall{UserID: userID, Unread: unread})
}

// Notifications returns recorded notifications.
func (p *PublisherRecorder) Notifications() []model.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Notification(nil), p.notifications...)
}

// Counts returns recorded unread counter pushes.
func (p *PublisherRecorder) Counts() []UnreadCountCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]UnreadCountCall(nil), p.counts...)
}

// OrderEventRecorder captures forwarded order events.
type OrderEventRecorder struct {
	mu     sync.Mutex
	events []model.OrderEvent
	Err    error
}

// PublishOrderEvent records ev and returns Err.
func (r *OrderEventRecorder) PublishOrderEvent(_ context.Context, ev model.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.Err
}

// Events returns recorded events.
func (r *OrderEventRecorder) Events() []model.OrderEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.OrderEvent(nil), r.events...)
}

// StockReleaserStub records inventory release calls.
type StockReleaserStub struct {
	mu        sync.Mutex
	ReleaseFn func(context.Context, uuid.UUID, []model.OrderLine) error
	Calls     []uuid.UUID
}

// Release delegates to ReleaseFn when set.
func (s *StockReleaserStub) Release(ctx context.Context, orderID uuid.UUID, lines []model.OrderLine) error {
	s.mu.Lock()
	s.Calls = append(s.Calls, orderID)
	fn := s.ReleaseFn
	s.mu.Unlock()
	if fn != nil {
		return fn(ctx, orderID, lines)
	}
	return nil
}
