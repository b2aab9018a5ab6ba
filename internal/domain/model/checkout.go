package model

import "github.com/shopspring/decimal"

// CheckoutLine requests a quantity of a catalog product.
type CheckoutLine struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0,lte=999"`
}

// CheckoutRequest is the input of order placement.
type CheckoutRequest struct {
	CustomerName           string         `json:"customerName" validate:"required,max=200"`
	CustomerEmail          string         `json:"customerEmail" validate:"required,email"`
	CustomerPhone          string         `json:"customerPhone" validate:"required,min=6,max=20"`
	ShippingAddress        string         `json:"shippingAddress" validate:"required,max=500"`
	PaymentMethod          string         `json:"paymentMethod" validate:"required,max=50"`
	VoucherCode            string         `json:"voucherCode" validate:"omitempty,max=50"`
	ContinueWithoutVoucher bool           `json:"continueWithoutVoucher"`
	Lines                  []CheckoutLine `json:"lines" validate:"required,min=1,max=100,dive"`
}

// CheckoutResult carries created order and the voucher problem, if the
// caller chose to continue without the discount.
type CheckoutResult struct {
	Order        *Order
	VoucherError error
}

// Product is a catalog snapshot used to price order lines.
type Product struct {
	ID     int64
	Name   string
	Price  decimal.Decimal
	Active bool
}
