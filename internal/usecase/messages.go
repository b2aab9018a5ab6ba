package usecase

import (
	"fmt"

	"github.com/PhamQuy48/storefront/internal/domain/model"
)

type message struct {
	title string
	body  string
	typ   model.NotificationType
}

const (
	keyOrderPlaced = "order.placed"
	keyPaymentPaid = "payment.PAID"
	keyPaymentFail = "payment.FAILED"
)

// catalog holds notification texts per locale. Bodies take the order number.
var catalog = map[string]map[string]message{
	"en": {
		keyOrderPlaced:                      {"Order placed", "Your order %s has been placed.", model.NotificationTypeOrder},
		string(model.OrderStatusProcessing): {"Order confirmed", "Your order %s is being prepared.", model.NotificationTypeOrder},
		string(model.OrderStatusShipping):   {"Order shipped", "Your order %s is on its way.", model.NotificationTypeOrder},
		string(model.OrderStatusCompleted):  {"Order delivered", "Your order %s has been delivered. Thank you for shopping with us.", model.NotificationTypeSuccess},
		string(model.OrderStatusRefunding):  {"Refund requested", "Your order %s was cancelled and a refund is being processed.", model.NotificationTypeWarning},
		string(model.OrderStatusCancelled):  {"Order cancelled", "Your order %s has been cancelled.", model.NotificationTypeWarning},
		keyPaymentPaid:                      {"Payment received", "We received the payment for order %s.", model.NotificationTypeSuccess},
		keyPaymentFail:                      {"Payment failed", "The payment for order %s did not go through.", model.NotificationTypeError},
	},
	"vi": {
		keyOrderPlaced:                      {"Đặt hàng thành công", "Đơn hàng %s đã được đặt.", model.NotificationTypeOrder},
		string(model.OrderStatusProcessing): {"Đơn hàng đã xác nhận", "Đơn hàng %s đang được chuẩn bị.", model.NotificationTypeOrder},
		string(model.OrderStatusShipping):   {"Đang giao hàng", "Đơn hàng %s đang được giao đến bạn.", model.NotificationTypeOrder},
		string(model.OrderStatusCompleted):  {"Giao hàng thành công", "Đơn hàng %s đã được giao. Cảm ơn bạn đã mua sắm.", model.NotificationTypeSuccess},
		string(model.OrderStatusRefunding):  {"Đang hoàn tiền", "Đơn hàng %s đã bị hủy và đang được hoàn tiền.", model.NotificationTypeWarning},
		string(model.OrderStatusCancelled):  {"Đơn hàng đã hủy", "Đơn hàng %s đã bị hủy.", model.NotificationTypeWarning},
		keyPaymentPaid:                      {"Đã nhận thanh toán", "Đã nhận thanh toán cho đơn hàng %s.", model.NotificationTypeSuccess},
		keyPaymentFail:                      {"Thanh toán thất bại", "Thanh toán cho đơn hàng %s không thành công.", model.NotificationTypeError},
	},
}

// render returns the localised text for key, falling back to English and
// finally to a generic status line.
func render(locale, key, number string) message {
	msgs, ok := catalog[locale]
	if !ok {
		msgs = catalog["en"]
	}
	m, ok := msgs[key]
	if !ok {
		m, ok = catalog["en"][key]
	}
	if !ok {
		return message{
			title: "Order updated",
			body:  fmt.Sprintf("Your order %s is now %s.", number, key),
			typ:   model.NotificationTypeOrder,
		}
	}
	m.body = fmt.Sprintf(m.body, number)
	return m
}
