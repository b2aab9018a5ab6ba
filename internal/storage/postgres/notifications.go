package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domainErrors "github.com/PhamQuy48/storefront/internal/domain/errors"
	"github.com/PhamQuy48/storefront/internal/domain/model"
)

// lockCounter creates the counter row on first use and holds its row lock
// until the surrounding transaction ends. Every mutation of a user's log takes
// this lock first, so the counter and the rows cannot drift apart.
func lockCounter(ctx context.Context, q querier, userID int64) (int64, error) {
	const query = `INSERT INTO notification_counters (user_id, unread) VALUES ($1, 0)
                   ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
                   RETURNING unread`
	var unread int64
	if err := q.QueryRow(ctx, query, userID).Scan(&unread); err != nil {
		return 0, err
	}
	return unread, nil
}

// --- NotificationRepository implementation ---

func (r *notificationRepository) Append(ctx context.Context, n model.Notification) (int64, error) {
	var unread int64
	err := r.storage.WithinTx(ctx, func(ctx context.Context) error {
		q := r.storage.conn(ctx)
		if _, err := lockCounter(ctx, q, n.UserID); err != nil {
			return err
		}

		const insert = `INSERT INTO notifications (id, user_id, title, message, type, read, order_id, created_at)
                        VALUES ($1, $2, $3, $4, $5, FALSE, $6, $7)`
		if _, err := q.Exec(ctx, insert, n.ID, n.UserID, n.Title, n.Message, n.Type, n.OrderID, n.CreatedAt); err != nil {
			return err
		}

		const increment = `UPDATE notification_counters SET unread = unread + 1 WHERE user_id=$1 RETURNING unread`
		return q.QueryRow(ctx, increment, n.UserID).Scan(&unread)
	})
	if err != nil {
		return 0, err
	}
	return unread, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID, userID int64) (int64, error) {
	var unread int64
	err := r.storage.WithinTx(ctx, func(ctx context.Context) error {
		q := r.storage.conn(ctx)
		current, err := lockCounter(ctx, q, userID)
		if err != nil {
			return err
		}

		if _, err := lockOwned(ctx, q, id, userID); err != nil {
			return err
		}

		tag, err := q.Exec(ctx, `UPDATE notifications SET read=TRUE WHERE id=$1 AND read=FALSE`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			unread = current
			return nil
		}

		const decrement = `UPDATE notification_counters SET unread = GREATEST(unread - 1, 0) WHERE user_id=$1 RETURNING unread`
		return q.QueryRow(ctx, decrement, userID).Scan(&unread)
	})
	if err != nil {
		return 0, err
	}
	return unread, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	err := r.storage.WithinTx(ctx, func(ctx context.Context) error {
		q := r.storage.conn(ctx)
		if _, err := lockCounter(ctx, q, userID); err != nil {
			return err
		}
		if _, err := q.Exec(ctx, `UPDATE notifications SET read=TRUE WHERE user_id=$1 AND read=FALSE`, userID); err != nil {
			return err
		}
		_, err := q.Exec(ctx, `UPDATE notification_counters SET unread=0 WHERE user_id=$1`, userID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return 0, nil
}

func (r *notificationRepository) Delete(ctx context.Context, id uuid.UUID, userID int64) (int64, error) {
	var unread int64
	err := r.storage.WithinTx(ctx, func(ctx context.Context) error {
		q := r.storage.conn(ctx)
		current, err := lockCounter(ctx, q, userID)
		if err != nil {
			return err
		}

		read, err := lockOwned(ctx, q, id, userID)
		if err != nil {
			return err
		}

		if _, err := q.Exec(ctx, `DELETE FROM notifications WHERE id=$1`, id); err != nil {
			return err
		}
		if read {
			unread = current
			return nil
		}

		const decrement = `UPDATE notification_counters SET unread = GREATEST(unread - 1, 0) WHERE user_id=$1 RETURNING unread`
		return q.QueryRow(ctx, decrement, userID).Scan(&unread)
	})
	if err != nil {
		return 0, err
	}
	return unread, nil
}

// lockOwned locks notification id and checks that userID owns it.
func lockOwned(ctx context.Context, q querier, id uuid.UUID, userID int64) (bool, error) {
	var (
		owner int64
		read  bool
	)
	err := q.QueryRow(ctx, `SELECT user_id, read FROM notifications WHERE id=$1 FOR UPDATE`, id).Scan(&owner, &read)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domainErrors.ErrNotFound
		}
		return false, err
	}
	if owner != userID {
		return false, domainErrors.ErrForbidden
	}
	return read, nil
}

func (r *notificationRepository) List(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	const query = `SELECT id, user_id, title, message, type, read, order_id, created_at
                   FROM notifications WHERE user_id=$1 ORDER BY created_at DESC, id LIMIT $2`
	rows, err := r.storage.conn(ctx).Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Read, &n.OrderID, &n.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	var unread int64
	err := r.storage.conn(ctx).QueryRow(ctx, `SELECT unread FROM notification_counters WHERE user_id=$1`, userID).Scan(&unread)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return unread, nil
}
