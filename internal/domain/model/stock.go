package model

import (
	"time"

	"github.com/google/uuid"
)

// StockReleaseState tracks delivery of a stock release to inventory.
type StockReleaseState string

const (
	StockReleasePending    StockReleaseState = "PENDING"
	StockReleaseProcessing StockReleaseState = "PROCESSING"
	StockReleaseDone       StockReleaseState = "DONE"
	StockReleaseFailed     StockReleaseState = "FAILED"
)

// StockRelease is an outbox entry asking inventory to return reserved stock.
type StockRelease struct {
	ID        int64
	OrderID   uuid.UUID
	Attempts  int
	CreatedAt time.Time
}
