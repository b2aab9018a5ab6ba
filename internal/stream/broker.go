package stream

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/PhamQuy48/storefront/internal/domain/model"
)

var (
	ErrInvalidUser = errors.New("stream: invalid user id")
	ErrClosed      = errors.New("stream: broker closed")
)

const defaultBuffer = 16

// Subscription is one open push channel of a user. Events is never closed;
// readers stop when Done is closed.
type Subscription struct {
	id     uint64
	userID int64
	events chan Event
	done   chan struct{}
	once   sync.Once
}

func (s *Subscription) ID() uint64 { return s.id }

func (s *Subscription) UserID() int64 { return s.userID }

func (s *Subscription) Events() <-chan Event { return s.events }

func (s *Subscription) Done() <-chan struct{} { return s.done }

func (s *Subscription) close() {
	s.once.Do(func() { close(s.done) })
}

// Broker keeps the registry of open channels per user and fans events out to them.
type Broker struct {
	mu     sync.RWMutex
	subs   map[int64]map[uint64]*Subscription
	nextID uint64
	buffer int
	closed bool
	logger *slog.Logger
}

// NewBroker creates an empty broker. buffer bounds the backlog of a single
// subscription before it is considered stuck and dropped.
func NewBroker(buffer int, logger *slog.Logger) *Broker {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{
		subs:   make(map[int64]map[uint64]*Subscription),
		buffer: buffer,
		logger: logger,
	}
}

// Register opens a new channel for userID.
func (b *Broker) Register(userID int64) (*Subscription, error) {
	if userID <= 0 {
		return nil, ErrInvalidUser
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	b.nextID++
	sub := &Subscription{
		id:     b.nextID,
		userID: userID,
		events: make(chan Event, b.buffer),
		done:   make(chan struct{}),
	}

	userSubs, ok := b.subs[userID]
	if !ok {
		userSubs = make(map[uint64]*Subscription)
		b.subs[userID] = userSubs
	}
	userSubs[sub.id] = sub

	b.logger.Debug("stream registered", slog.Int64("user_id", userID), slog.Uint64("subscription", sub.id))
	return sub, nil
}

// Unregister removes sub from the registry and closes its Done channel. It is
// safe to call more than once.
func (b *Broker) Unregister(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	b.remove(sub)
	b.mu.Unlock()

	sub.close()
}

func (b *Broker) remove(sub *Subscription) {
	userSubs, ok := b.subs[sub.userID]
	if !ok {
		return
	}
	if _, ok := userSubs[sub.id]; !ok {
		return
	}
	delete(userSubs, sub.id)
	if len(userSubs) == 0 {
		delete(b.subs, sub.userID)
	}
	b.logger.Debug("stream unregistered", slog.Int64("user_id", sub.userID), slog.Uint64("subscription", sub.id))
}

// Publish hands ev to every open channel of userID without blocking and
// returns how many channels accepted it. A channel with a full buffer is
// dropped; its client reconnects and resyncs from the store.
func (b *Broker) Publish(userID int64, ev Event) int {
	var (
		delivered int
		stuck     []*Subscription
	)

	b.mu.RLock()
	for _, sub := range b.subs[userID] {
		select {
		case <-sub.done:
		case sub.events <- ev:
			delivered++
		default:
			stuck = append(stuck, sub)
		}
	}
	b.mu.RUnlock()

	for _, sub := range stuck {
		b.logger.Warn("dropping slow stream",
			slog.Int64("user_id", userID),
			slog.Uint64("subscription", sub.id),
			slog.String("event", ev.Name),
		)
		b.Unregister(sub)
	}

	return delivered
}

// PublishNotification pushes a freshly stored notification to userID.
func (b *Broker) PublishNotification(userID int64, n model.Notification) {
	b.Publish(userID, NotificationEvent(n))
}

// PublishUnreadCount pushes the current unread counter to userID.
func (b *Broker) PublishUnreadCount(userID int64, unread int64) {
	b.Publish(userID, UnreadCountEvent(unread))
}

// Connections returns the number of open channels of userID.
func (b *Broker) Connections(userID int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[userID])
}

// Close unregisters every channel and refuses new registrations.
func (b *Broker) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	var all []*Subscription
	for _, userSubs := range b.subs {
		for _, sub := range userSubs {
			all = append(all, sub)
		}
	}
	b.subs = make(map[int64]map[uint64]*Subscription)
	b.mu.Unlock()

	for _, sub := range all {
		sub.close()
	}
}
