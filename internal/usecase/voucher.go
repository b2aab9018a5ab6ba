package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/PhamQuy48/storefront/internal/domain/errors"
	"github.com/PhamQuy48/storefront/internal/domain/model"
	"github.com/PhamQuy48/storefront/internal/domain/repository"
)

// VoucherUseCase validates and redeems discount codes.
type VoucherUseCase struct {
	vouchers repository.VoucherRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewVoucherUseCase constructs VoucherUseCase.
func NewVoucherUseCase(vouchers repository.VoucherRepository, logger *slog.Logger) *VoucherUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &VoucherUseCase{vouchers: vouchers, logger: logger, now: time.Now}
}

// Validate checks code against orderTotal without consuming a use.
func (u *VoucherUseCase) Validate(ctx context.Context, code string, orderTotal decimal.Decimal) (*model.VoucherQuote, error) {
	if strings.TrimSpace(code) == "" {
		return nil, domainErrors.NewValidationError("code", "is required")
	}
	if orderTotal.IsNegative() {
		return nil, domainErrors.NewValidationError("orderTotal", "must not be negative")
	}

	v, err := u.vouchers.GetByCode(ctx, model.NormalizeVoucherCode(code))
	if err != nil {
		return nil, err
	}

	if err := checkRedeemable(v, orderTotal, u.now()); err != nil {
		return nil, err
	}

	return &model.VoucherQuote{Voucher: *v, Discount: v.Discount(orderTotal)}, nil
}

// Redeem consumes one use of voucher id. It must run inside the checkout
// transaction so the increment commits together with the order.
func (u *VoucherUseCase) Redeem(ctx context.Context, id int64) error {
	now := u.now()
	ok, err := u.vouchers.Redeem(ctx, id, now)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	v, err := u.vouchers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := checkRedeemable(v, decimal.Zero, now); err != nil && !errors.Is(err, domainErrors.ErrVoucherBelowMinimum) {
		return err
	}

	u.logger.Debug("voucher redeem lost race", slog.String("code", v.Code), slog.Int64("used", v.UsedCount))
	return domainErrors.ErrVoucherLimitReached
}

func checkRedeemable(v *model.Voucher, orderTotal decimal.Decimal, now time.Time) error {
	switch {
	case !v.Active:
		return domainErrors.ErrVoucherInactive
	case now.Before(v.ValidFrom):
		return domainErrors.ErrVoucherNotStarted
	case now.After(v.ValidUntil):
		return domainErrors.ErrVoucherExpired
	case v.MinOrderValue != nil && orderTotal.LessThan(*v.MinOrderValue):
		return fmt.Errorf("%w (minimum %s)", domainErrors.ErrVoucherBelowMinimum, v.MinOrderValue.StringFixed(0))
	case v.Exhausted():
		return domainErrors.ErrVoucherLimitReached
	}
	return nil
}
