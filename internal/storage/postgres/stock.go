package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/PhamQuy48/storefront/internal/domain/model"
)

// --- StockReleaseRepository implementation ---

// ClaimBatch leases up to limit due releases. A claimed row becomes due again
// when the lease expires, so a crashed worker does not lose it.
func (r *stockReleaseRepository) ClaimBatch(ctx context.Context, limit int, lease time.Duration) ([]model.StockRelease, error) {
	const selectQuery = `SELECT id, order_id, attempts, created_at
                         FROM stock_releases
                         WHERE state IN ('PENDING', 'PROCESSING') AND available_at <= NOW()
                         ORDER BY id
                         LIMIT $1
                         FOR UPDATE SKIP LOCKED`
	const claimQuery = `UPDATE stock_releases
                        SET state='PROCESSING', attempts=attempts+1, available_at=$2, updated_at=NOW()
                        WHERE id=$1`

	var releases []model.StockRelease
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var rel model.StockRelease
			if err := rows.Scan(&rel.ID, &rel.OrderID, &rel.Attempts, &rel.CreatedAt); err != nil {
				return err
			}
			rel.Attempts++
			releases = append(releases, rel)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		rows.Close()

		leaseUntil := time.Now().Add(lease)
		for _, rel := range releases {
			if _, err := tx.Exec(ctx, claimQuery, rel.ID, leaseUntil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return releases, nil
}

func (r *stockReleaseRepository) MarkDone(ctx context.Context, id int64) error {
	_, err := r.storage.conn(ctx).Exec(ctx, `UPDATE stock_releases SET state='DONE', updated_at=NOW() WHERE id=$1`, id)
	return err
}

func (r *stockReleaseRepository) Reschedule(ctx context.Context, id int64, at time.Time, state model.StockReleaseState) error {
	const query = `UPDATE stock_releases SET state=$2, available_at=$3, updated_at=NOW() WHERE id=$1`
	_, err := r.storage.conn(ctx).Exec(ctx, query, id, state, at)
	return err
}
