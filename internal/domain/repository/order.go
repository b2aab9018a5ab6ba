package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/PhamQuy48/storefront/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	Get(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.Order, error)
	ListAll(ctx context.Context, limit int) ([]model.Order, error)
	// UpdateStatus applies change only while the stored status equals change.From.
	// It returns domain ErrConflict when another writer got there first.
	UpdateStatus(ctx context.Context, change model.StatusChange) (time.Time, error)
	// UpdatePaymentStatus applies next only while the stored payment status equals expected.
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, expected, next model.PaymentStatus) (time.Time, error)
	History(ctx context.Context, orderID uuid.UUID) ([]model.OrderStatusChange, error)
}

// CatalogRepository is a read-only view of the product catalog.
type CatalogRepository interface {
	Products(ctx context.Context, ids []int64) (map[int64]model.Product, error)
}
