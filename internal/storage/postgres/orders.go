package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/PhamQuy48/storefront/internal/domain/errors"
	"github.com/PhamQuy48/storefront/internal/domain/model"
)

const orderColumns = `id, number, user_id, customer_name, customer_email, customer_phone, shipping_address,
                      subtotal, shipping_fee, discount_amount, total_amount, voucher_id,
                      status, payment_status, payment_method, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.Number, &o.UserID, &o.Customer.Name, &o.Customer.Email, &o.Customer.Phone, &o.ShippingAddress,
		&o.Subtotal, &o.ShippingFee, &o.DiscountAmount, &o.TotalAmount, &o.VoucherID,
		&o.Status, &o.PaymentStatus, &o.PaymentMethod, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.storage.WithinTx(ctx, func(ctx context.Context) error {
		q := r.storage.conn(ctx)
		const insertOrder = `INSERT INTO orders (id, number, user_id, customer_name, customer_email, customer_phone, shipping_address,
                                subtotal, shipping_fee, discount_amount, total_amount, voucher_id,
                                status, payment_status, payment_method)
                             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
                             RETURNING created_at, updated_at`
		err := q.QueryRow(ctx, insertOrder,
			order.ID, order.Number, order.UserID, order.Customer.Name, order.Customer.Email, order.Customer.Phone, order.ShippingAddress,
			order.Subtotal, order.ShippingFee, order.DiscountAmount, order.TotalAmount, order.VoucherID,
			order.Status, order.PaymentStatus, order.PaymentMethod,
		).Scan(&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}

		const insertLine = `INSERT INTO order_lines (order_id, line_no, product_id, product_name, unit_price, quantity)
                            VALUES ($1, $2, $3, $4, $5, $6)`
		for i, line := range order.Lines {
			if _, err := q.Exec(ctx, insertLine, order.ID, i+1, line.ProductID, line.ProductName, line.UnitPrice, line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	q := r.storage.conn(ctx)
	order, err := scanOrder(q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	if err := r.attachLines(ctx, []*model.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`
	return r.list(ctx, query, userID, limit)
}

func (r *orderRepository) ListAll(ctx context.Context, limit int) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1`
	return r.list(ctx, query, limit)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.storage.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		refs = append(refs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := r.attachLines(ctx, refs); err != nil {
		return nil, err
	}

	result := make([]model.Order, 0, len(refs))
	for _, o := range refs {
		result = append(result, *o)
	}
	return result, nil
}

func (r *orderRepository) attachLines(ctx context.Context, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*model.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID.String())
	}

	const query = `SELECT order_id, product_id, product_name, unit_price, quantity
                   FROM order_lines WHERE order_id = ANY($1::uuid[]) ORDER BY order_id, line_no`
	rows, err := r.storage.conn(ctx).Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID uuid.UUID
			line    model.OrderLine
		)
		if err := rows.Scan(&orderID, &line.ProductID, &line.ProductName, &line.UnitPrice, &line.Quantity); err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.Lines = append(o.Lines, line)
		}
	}
	return rows.Err()
}

func (r *orderRepository) UpdateStatus(ctx context.Context, change model.StatusChange) (time.Time, error) {
	var updatedAt time.Time
	err := r.storage.WithinTx(ctx, func(ctx context.Context) error {
		q := r.storage.conn(ctx)
		const update = `UPDATE orders SET status=$1, payment_status=$2, updated_at=NOW()
                        WHERE id=$3 AND status=$4 RETURNING updated_at`
		if err := q.QueryRow(ctx, update, change.To, change.PaymentStatus, change.OrderID, change.From).Scan(&updatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrConflict
			}
			return err
		}

		const insertHistory = `INSERT INTO order_status_history (order_id, from_status, to_status, payment_status, actor_id, actor_role, changed_at)
                               VALUES ($1, $2, $3, $4, $5, $6, $7)`
		if _, err := q.Exec(ctx, insertHistory, change.OrderID, change.From, change.To, change.PaymentStatus,
			change.Actor.UserID, change.Actor.Role, updatedAt); err != nil {
			return err
		}

		if change.ReleaseStock {
			const enqueue = `INSERT INTO stock_releases (order_id) VALUES ($1) ON CONFLICT (order_id) DO NOTHING`
			if _, err := q.Exec(ctx, enqueue, change.OrderID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}
	return updatedAt, nil
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, expected, next model.PaymentStatus) (time.Time, error) {
	const update = `UPDATE orders SET payment_status=$1, updated_at=NOW()
                    WHERE id=$2 AND payment_status=$3 AND status NOT IN ('COMPLETED', 'CANCELLED')
                    RETURNING updated_at`
	var updatedAt time.Time
	if err := r.storage.conn(ctx).QueryRow(ctx, update, next, orderID, expected).Scan(&updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, domainErrors.ErrConflict
		}
		return time.Time{}, err
	}
	return updatedAt, nil
}

func (r *orderRepository) History(ctx context.Context, orderID uuid.UUID) ([]model.OrderStatusChange, error) {
	const query = `SELECT order_id, from_status, to_status, payment_status, actor_id, actor_role, changed_at
                   FROM order_status_history WHERE order_id=$1 ORDER BY changed_at, id`
	rows, err := r.storage.conn(ctx).Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderStatusChange
	for rows.Next() {
		var c model.OrderStatusChange
		if err := rows.Scan(&c.OrderID, &c.From, &c.To, &c.PaymentStatus, &c.ActorID, &c.ActorRole, &c.ChangedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- CatalogRepository implementation ---

func (r *catalogRepository) Products(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	result := make(map[int64]model.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	const query = `SELECT id, name, price, active FROM products WHERE id = ANY($1)`
	rows, err := r.storage.conn(ctx).Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Active); err != nil {
			return nil, err
		}
		result[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
