package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PhamQuy48/storefront/internal/domain/model"
	"github.com/PhamQuy48/storefront/internal/domain/repository"
)

const (
	stockReleaseLease       = time.Minute
	stockReleaseBackoff     = 30 * time.Second
	stockReleaseMaxBackoff  = 10 * time.Minute
	stockReleaseMaxAttempts = 10
)

// StockUseCase drains the stock release outbox written by cancellations.
type StockUseCase struct {
	releases  repository.StockReleaseRepository
	orders    repository.OrderRepository
	inventory StockReleaser
	logger    *slog.Logger
	now       func() time.Time
}

// NewStockUseCase constructs StockUseCase.
func NewStockUseCase(releases repository.StockReleaseRepository, orders repository.OrderRepository, inventory StockReleaser, logger *slog.Logger) *StockUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &StockUseCase{releases: releases, orders: orders, inventory: inventory, logger: logger, now: time.Now}
}

// Claim leases up to limit due releases for this process.
func (u *StockUseCase) Claim(ctx context.Context, limit int) ([]model.StockRelease, error) {
	return u.releases.ClaimBatch(ctx, limit, stockReleaseLease)
}

// Release hands rel to inventory. Failures are rescheduled with linear
// backoff until the attempt budget is spent, then parked as FAILED; the
// returned error is the inventory error either way.
func (u *StockUseCase) Release(ctx context.Context, rel model.StockRelease) error {
	order, err := u.orders.Get(ctx, rel.OrderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", rel.OrderID, err)
	}

	releaseErr := u.inventory.Release(ctx, order.ID, order.Lines)
	if releaseErr == nil {
		return u.releases.MarkDone(ctx, rel.ID)
	}

	state := model.StockReleasePending
	if rel.Attempts >= stockReleaseMaxAttempts {
		state = model.StockReleaseFailed
		u.logger.Error("giving up stock release",
			slog.String("order_id", rel.OrderID.String()),
			slog.Int("attempts", rel.Attempts),
			slog.Any("error", releaseErr),
		)
	}
	if err := u.releases.Reschedule(ctx, rel.ID, u.now().Add(releaseBackoff(rel.Attempts)), state); err != nil {
		return fmt.Errorf("reschedule stock release %d: %w", rel.ID, err)
	}
	return releaseErr
}

func releaseBackoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := time.Duration(attempts) * stockReleaseBackoff
	if d > stockReleaseMaxBackoff {
		return stockReleaseMaxBackoff
	}
	return d
}
