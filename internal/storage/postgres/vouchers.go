package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/PhamQuy48/storefront/internal/domain/errors"
	"github.com/PhamQuy48/storefront/internal/domain/model"
)

const voucherColumns = `id, code, discount_type, discount_value, min_order_value, max_discount,
                        usage_limit, used_count, valid_from, valid_until, active`

func scanVoucher(row pgx.Row) (*model.Voucher, error) {
	var v model.Voucher
	err := row.Scan(&v.ID, &v.Code, &v.DiscountType, &v.DiscountValue, &v.MinOrderValue, &v.MaxDiscount,
		&v.UsageLimit, &v.UsedCount, &v.ValidFrom, &v.ValidUntil, &v.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// --- VoucherRepository implementation ---

func (r *voucherRepository) GetByCode(ctx context.Context, code string) (*model.Voucher, error) {
	const query = `SELECT ` + voucherColumns + ` FROM vouchers WHERE code=$1`
	return scanVoucher(r.storage.conn(ctx).QueryRow(ctx, query, model.NormalizeVoucherCode(code)))
}

func (r *voucherRepository) GetByID(ctx context.Context, id int64) (*model.Voucher, error) {
	const query = `SELECT ` + voucherColumns + ` FROM vouchers WHERE id=$1`
	return scanVoucher(r.storage.conn(ctx).QueryRow(ctx, query, id))
}

func (r *voucherRepository) Redeem(ctx context.Context, id int64, now time.Time) (bool, error) {
	const update = `UPDATE vouchers SET used_count = used_count + 1
                    WHERE id=$1 AND active AND valid_from <= $2 AND valid_until >= $2
                      AND (usage_limit IS NULL OR used_count < usage_limit)`
	tag, err := r.storage.conn(ctx).Exec(ctx, update, id, now)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
