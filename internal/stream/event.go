package stream

import (
	"time"

	"github.com/PhamQuy48/storefront/internal/domain/model"
)

// Event names written on the notification stream.
const (
	EventConnected    = "connected"
	EventNotification = "notification"
	EventUnreadCount  = "unread_count"
	EventHeartbeat    = "heartbeat"
)

// Event is a single push delivered to a subscription.
type Event struct {
	Name string
	ID   string
	Data any
}

// NotificationPayload is the wire form of a notification event.
type NotificationPayload struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	OrderID   *string   `json:"order_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UnreadCountPayload carries the authoritative unread counter.
type UnreadCountPayload struct {
	UnreadCount int64 `json:"unread_count"`
}

// ConnectedPayload acknowledges a new stream.
type ConnectedPayload struct {
	UserID      int64 `json:"user_id"`
	UnreadCount int64 `json:"unread_count"`
}

// HeartbeatPayload keeps idle connections alive.
type HeartbeatPayload struct {
	Time time.Time `json:"time"`
}

// NewNotificationPayload converts a stored notification into its wire form.
func NewNotificationPayload(n model.Notification) NotificationPayload {
	p := NotificationPayload{
		ID:        n.ID.String(),
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if n.OrderID != nil {
		id := n.OrderID.String()
		p.OrderID = &id
	}
	return p
}

// NotificationEvent builds the push for a freshly stored notification.
func NotificationEvent(n model.Notification) Event {
	return Event{Name: EventNotification, ID: n.ID.String(), Data: NewNotificationPayload(n)}
}

// UnreadCountEvent builds the push for a counter change.
func UnreadCountEvent(unread int64) Event {
	return Event{Name: EventUnreadCount, Data: UnreadCountPayload{UnreadCount: unread}}
}
