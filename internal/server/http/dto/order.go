package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutLine requests a quantity of a catalog product.
type CheckoutLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CheckoutRequest describes order placement payload.
type CheckoutRequest struct {
	CustomerName           string         `json:"customerName"`
	CustomerEmail          string         `json:"customerEmail"`
	CustomerPhone          string         `json:"customerPhone"`
	ShippingAddress        string         `json:"shippingAddress"`
	PaymentMethod          string         `json:"paymentMethod"`
	VoucherCode            string         `json:"voucherCode,omitempty"`
	ContinueWithoutVoucher bool           `json:"continueWithoutVoucher,omitempty"`
	Lines                  []CheckoutLine `json:"lines"`
}

// TransitionRequest asks the state machine for a new status.
type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

// PaymentRequest records a settlement outcome.
type PaymentRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required"`
}

// OrderLineResponse is a priced order line.
type OrderLineResponse struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
}

// OrderResponse represents an order returned to clients.
type OrderResponse struct {
	ID              string              `json:"id"`
	Number          string              `json:"orderNumber"`
	UserID          int64               `json:"userId"`
	CustomerName    string              `json:"customerName"`
	CustomerEmail   string              `json:"customerEmail"`
	CustomerPhone   string              `json:"customerPhone"`
	ShippingAddress string              `json:"shippingAddress"`
	Lines           []OrderLineResponse `json:"lines"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	ShippingFee     decimal.Decimal     `json:"shippingFee"`
	DiscountAmount  decimal.Decimal     `json:"discountAmount"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	VoucherID       *int64              `json:"voucherId,omitempty"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"paymentStatus"`
	PaymentMethod   string              `json:"paymentMethod"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// CheckoutResponse carries the created order and, when the caller chose to
// continue without it, the reason the voucher was not applied.
type CheckoutResponse struct {
	Order        OrderResponse `json:"order"`
	VoucherError string        `json:"voucherError,omitempty"`
}

// StatusChangeResponse is an entry of the order audit trail.
type StatusChangeResponse struct {
	From          string    `json:"from"`
	To            string    `json:"to"`
	PaymentStatus string    `json:"paymentStatus"`
	ActorID       int64     `json:"actorId"`
	ActorRole     string    `json:"actorRole"`
	ChangedAt     time.Time `json:"changedAt"`
}
