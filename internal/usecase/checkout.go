package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/PhamQuy48/storefront/internal/domain/errors"
	"github.com/PhamQuy48/storefront/internal/domain/model"
)

// Checkout prices req against the catalog, applies the voucher and stores
// a PENDING order. The voucher use and the order commit together.
func (u *OrderUseCase) Checkout(ctx context.Context, req model.CheckoutRequest, actor model.Identity) (*model.CheckoutResult, error) {
	if actor.UserID <= 0 {
		return nil, domainErrors.ErrForbidden
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	lines, err := u.snapshotLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total())
	}
	shipping := u.shippingFee(subtotal)

	result := &model.CheckoutResult{}
	var quote *model.VoucherQuote
	if code := strings.TrimSpace(req.VoucherCode); code != "" {
		quote, err = u.vouchers.Validate(ctx, code, subtotal)
		if err != nil {
			if !skippableVoucherError(err, req) {
				return nil, err
			}
			result.VoucherError = err
			quote = nil
		}
	}

	now := u.now().UTC()
	order := &model.Order{
		ID:     u.newID(),
		UserID: actor.UserID,
		Customer: model.Customer{
			Name:  strings.TrimSpace(req.CustomerName),
			Email: strings.TrimSpace(req.CustomerEmail),
			Phone: strings.TrimSpace(req.CustomerPhone),
		},
		ShippingAddress: strings.TrimSpace(req.ShippingAddress),
		Lines:           lines,
		Subtotal:        subtotal,
		ShippingFee:     shipping,
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		PaymentMethod:   model.PaymentMethod(strings.TrimSpace(req.PaymentMethod)),
	}
	order.Number = orderNumber(now, order.ID)

	var (
		n      *model.Notification
		unread int64
	)
	unlockUser := u.notifications.lockUser(order.UserID)
	err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
		order.DiscountAmount = decimal.Zero
		order.VoucherID = nil
		if quote != nil {
			if err := u.vouchers.Redeem(ctx, quote.Voucher.ID); err != nil {
				if !skippableVoucherError(err, req) {
					return err
				}
				result.VoucherError = err
			} else {
				voucherID := quote.Voucher.ID
				order.DiscountAmount = quote.Discount
				order.VoucherID = &voucherID
			}
		}
		order.TotalAmount = subtotal.Add(shipping).Sub(order.DiscountAmount)

		if err := u.orders.Create(ctx, order); err != nil {
			return err
		}

		var err error
		n, unread, err = u.notifications.recordMessage(ctx, order.UserID, order.ID, keyOrderPlaced, order.Number)
		return err
	})
	if err != nil {
		unlockUser()
		return nil, err
	}

	u.notifications.deliver(n, unread)
	unlockUser()
	u.publishEvent(ctx, model.OrderEvent{
		OrderID:       order.ID,
		Number:        order.Number,
		UserID:        order.UserID,
		To:            order.Status,
		PaymentStatus: order.PaymentStatus,
		Actor:         actor,
		OccurredAt:    order.CreatedAt,
	})

	attrs := []any{
		slog.String("order_id", order.ID.String()),
		slog.String("number", order.Number),
		slog.String("total", order.TotalAmount.String()),
	}
	if result.VoucherError != nil {
		attrs = append(attrs, slog.String("voucher_error", result.VoucherError.Error()))
	}
	u.logger.Info("order placed", attrs...)

	result.Order = order
	return result, nil
}

func (u *OrderUseCase) snapshotLines(ctx context.Context, requested []model.CheckoutLine) ([]model.OrderLine, error) {
	ids := make([]int64, 0, len(requested))
	for _, l := range requested {
		ids = append(ids, l.ProductID)
	}

	products, err := u.catalog.Products(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]model.OrderLine, 0, len(requested))
	for _, l := range requested {
		p, ok := products[l.ProductID]
		if !ok || !p.Active {
			return nil, fmt.Errorf("product %d: %w", l.ProductID, domainErrors.ErrNotFound)
		}
		lines = append(lines, model.OrderLine{
			ProductID:   p.ID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    l.Quantity,
		})
	}
	return lines, nil
}

func (u *OrderUseCase) shippingFee(subtotal decimal.Decimal) decimal.Decimal {
	threshold := u.opts.FreeShippingThreshold
	if threshold.IsPositive() && subtotal.GreaterThanOrEqual(threshold) {
		return decimal.Zero
	}
	return u.opts.ShippingFee
}

// skippableVoucherError reports whether checkout may proceed without the
// discount after err.
func skippableVoucherError(err error, req model.CheckoutRequest) bool {
	if !req.ContinueWithoutVoucher {
		return false
	}
	return domainErrors.IsVoucherRejection(err) || errors.Is(err, domainErrors.ErrNotFound)
}

func orderNumber(now time.Time, id uuid.UUID) string {
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8]))
}
