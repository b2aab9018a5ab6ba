package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Orders() OrderRepository
	Vouchers() VoucherRepository
	Notifications() NotificationRepository
	StockReleases() StockReleaseRepository
	Catalog() CatalogRepository
}

// Transactor runs fn inside a single storage transaction. Repository calls
// made with the context passed to fn join that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
