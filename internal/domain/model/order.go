package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus describes fulfilment lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipping   OrderStatus = "SHIPPING"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusRefunding  OrderStatus = "REFUNDING"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipping,
	OrderStatusCompleted,
	OrderStatusRefunding,
	OrderStatusCancelled,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipping,
		OrderStatusCompleted, OrderStatusRefunding, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions leave s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// ParseOrderStatus converts user input into OrderStatus.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	s := OrderStatus(strings.ToUpper(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// PaymentStatus describes settlement state recorded for an order.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
	PaymentStatusFailed   PaymentStatus = "FAILED"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded, PaymentStatusFailed:
		return true
	}
	return false
}

// ParsePaymentStatus converts user input into PaymentStatus.
func ParsePaymentStatus(raw string) (PaymentStatus, bool) {
	s := PaymentStatus(strings.ToUpper(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// PaymentMethod is an opaque label chosen at checkout.
type PaymentMethod string

// IsCashOnDelivery reports whether payment is collected by the courier.
func (m PaymentMethod) IsCashOnDelivery() bool {
	switch strings.ToLower(strings.TrimSpace(string(m))) {
	case "cod", "cash-on-delivery", "cash_on_delivery":
		return true
	}
	return false
}

// OrderLine is a product snapshot taken at checkout.
type OrderLine struct {
	ProductID   int64
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// Total returns unit price multiplied by quantity.
func (l OrderLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Customer holds contact details copied into the order.
type Customer struct {
	Name  string
	Email string
	Phone string
}

// Order describes purchase placed by a user.
type Order struct {
	ID              uuid.UUID
	Number          string
	UserID          int64
	Customer        Customer
	ShippingAddress string
	Lines           []OrderLine
	Subtotal        decimal.Decimal
	ShippingFee     decimal.Decimal
	DiscountAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
	VoucherID       *int64
	Status          OrderStatus
	PaymentStatus   PaymentStatus
	PaymentMethod   PaymentMethod
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// StatusChange is a compare-and-set request against the stored status.
type StatusChange struct {
	OrderID       uuid.UUID
	From          OrderStatus
	To            OrderStatus
	PaymentStatus PaymentStatus
	Actor         Identity
	ReleaseStock  bool
}

// OrderStatusChange is an audit record of an accepted transition.
type OrderStatusChange struct {
	OrderID       uuid.UUID
	From          OrderStatus
	To            OrderStatus
	PaymentStatus PaymentStatus
	ActorID       int64
	ActorRole     Role
	ChangedAt     time.Time
}

// OrderEvent is emitted once for every accepted transition.
type OrderEvent struct {
	OrderID       uuid.UUID
	Number        string
	UserID        int64
	From          OrderStatus
	To            OrderStatus
	PaymentStatus PaymentStatus
	Actor         Identity
	OccurredAt    time.Time
}
