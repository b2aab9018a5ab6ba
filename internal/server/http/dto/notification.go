package dto

import "github.com/PhamQuy48/storefront/internal/stream"

// NotificationListResponse is a page of the notification log.
type NotificationListResponse struct {
	Items       []stream.NotificationPayload `json:"items"`
	UnreadCount int64                        `json:"unread_count"`
}

// MarkNotificationsRequest marks one notification or all of them as read.
type MarkNotificationsRequest struct {
	NotificationID string `json:"notificationId"`
	MarkAllAsRead  bool   `json:"markAllAsRead"`
}

// UnreadCountResponse carries the counter after a mutation.
type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}
