package repository

import (
	"context"
	"time"

	"github.com/PhamQuy48/storefront/internal/domain/model"
)

// VoucherRepository provides access to the voucher ledger.
type VoucherRepository interface {
	GetByCode(ctx context.Context, code string) (*model.Voucher, error)
	GetByID(ctx context.Context, id int64) (*model.Voucher, error)
	// Redeem consumes one use in a single conditional update. It reports
	// false without error when the voucher is not redeemable at now.
	Redeem(ctx context.Context, id int64, now time.Time) (bool, error)
}
