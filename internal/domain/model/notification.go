package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies a notification for rendering.
type NotificationType string

const (
	NotificationTypeOrder   NotificationType = "ORDER"
	NotificationTypeVoucher NotificationType = "VOUCHER"
	NotificationTypeSuccess NotificationType = "SUCCESS"
	NotificationTypeWarning NotificationType = "WARNING"
	NotificationTypeError   NotificationType = "ERROR"
	NotificationTypeInfo    NotificationType = "INFO"
)

// Valid reports whether t is a known type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeOrder, NotificationTypeVoucher, NotificationTypeSuccess,
		NotificationTypeWarning, NotificationTypeError, NotificationTypeInfo:
		return true
	}
	return false
}

// Notification is an entry of a user's notification log.
type Notification struct {
	ID        uuid.UUID
	UserID    int64
	Title     string
	Message   string
	Type      NotificationType
	Read      bool
	OrderID   *uuid.UUID
	CreatedAt time.Time
}

// NotificationPage is a slice of the log with the unread counter.
type NotificationPage struct {
	Items  []Notification
	Unread int64
}
