package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValidateVoucherRequest asks for a voucher quote against an order total.
type ValidateVoucherRequest struct {
	Code       string          `json:"code"`
	OrderTotal decimal.Decimal `json:"orderTotal"`
}

// VoucherResponse describes a voucher shown before checkout.
type VoucherResponse struct {
	Code          string           `json:"code"`
	DiscountType  string           `json:"discountType"`
	DiscountValue decimal.Decimal  `json:"discountValue"`
	MinOrderValue *decimal.Decimal `json:"minOrderValue,omitempty"`
	MaxDiscount   *decimal.Decimal `json:"maxDiscount,omitempty"`
	ValidUntil    time.Time        `json:"validUntil"`
}

// ValidateVoucherResponse is either a quote or a rejection reason.
type ValidateVoucherResponse struct {
	Valid    bool             `json:"valid"`
	Discount *decimal.Decimal `json:"discount,omitempty"`
	Voucher  *VoucherResponse `json:"voucher,omitempty"`
	Reason   string           `json:"reason,omitempty"`
}
