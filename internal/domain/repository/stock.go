package repository

import (
	"context"
	"time"

	"github.com/PhamQuy48/storefront/internal/domain/model"
)

// StockReleaseRepository is the outbox of pending stock releases.
type StockReleaseRepository interface {
	ClaimBatch(ctx context.Context, limit int, lease time.Duration) ([]model.StockRelease, error)
	MarkDone(ctx context.Context, id int64) error
	Reschedule(ctx context.Context, id int64, at time.Time, state model.StockReleaseState) error
}
