package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType selects how a voucher discount is computed.
type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "PERCENTAGE"
	DiscountTypeFixedAmount DiscountType = "FIXED_AMOUNT"
)

// Voucher is a discount code with a shared usage quota.
type Voucher struct {
	ID            int64
	Code          string
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	MinOrderValue *decimal.Decimal
	MaxDiscount   *decimal.Decimal
	UsageLimit    *int64
	UsedCount     int64
	ValidFrom     time.Time
	ValidUntil    time.Time
	Active        bool
}

// NormalizeVoucherCode returns the canonical stored form of code.
func NormalizeVoucherCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Exhausted reports whether the usage limit has been reached.
func (v Voucher) Exhausted() bool {
	return v.UsageLimit != nil && v.UsedCount >= *v.UsageLimit
}

// Discount computes the discount for orderTotal. The result never exceeds orderTotal.
func (v Voucher) Discount(orderTotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch v.DiscountType {
	case DiscountTypePercentage:
		discount = orderTotal.Mul(v.DiscountValue).Div(decimal.NewFromInt(100)).Round(2)
		if v.MaxDiscount != nil && discount.GreaterThan(*v.MaxDiscount) {
			discount = *v.MaxDiscount
		}
	case DiscountTypeFixedAmount:
		discount = v.DiscountValue
	}
	if discount.GreaterThan(orderTotal) {
		discount = orderTotal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return discount
}

// VoucherQuote is the read-only result of validating a voucher.
type VoucherQuote struct {
	Voucher  Voucher
	Discount decimal.Decimal
}
