package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/PhamQuy48/storefront/internal/adapter/inventory"
	"github.com/PhamQuy48/storefront/internal/domain/model"
)

// StockFacade exposes the subset of application functionality required by the worker.
type StockFacade interface {
	StockReleasesForProcessing(ctx context.Context, limit int) ([]model.StockRelease, error)
	ReleaseStock(ctx context.Context, rel model.StockRelease) error
}

// StockReleaseProcessor drains the stock release outbox with a worker pool.
type StockReleaseProcessor struct {
	facade       StockFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.StockRelease
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewStockReleaseProcessor constructs stock release worker pool.
func NewStockReleaseProcessor(facade StockFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *StockReleaseProcessor {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &StockReleaseProcessor{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.StockRelease, batchSize*workers),
	}
}

// Start launches background processing. The pool outlives ctx cancellation
// and runs until Stop.
func (p *StockReleaseProcessor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *StockReleaseProcessor) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *StockReleaseProcessor) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *StockReleaseProcessor) fetchAndDispatch(ctx context.Context) {
	releases, err := p.facade.StockReleasesForProcessing(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch stock releases failed", slog.String("error", err.Error()))
		return
	}
	for _, rel := range releases {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- rel:
		}
	}
}

func (p *StockReleaseProcessor) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case rel, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handleRelease(ctx, rel)
		}
	}
}

func (p *StockReleaseProcessor) handleRelease(ctx context.Context, rel model.StockRelease) {
	err := p.facade.ReleaseStock(ctx, rel)
	if err == nil {
		p.logger.Info("stock released", slog.String("order_id", rel.OrderID.String()), slog.Int("attempt", rel.Attempts))
		return
	}

	var limited inventory.TooManyRequestsError
	if errors.As(err, &limited) {
		p.logger.Warn("inventory rate limited", slog.Duration("retry_after", limited.RetryAfter))
		select {
		case <-ctx.Done():
		case <-time.After(limited.RetryAfter):
		}
		return
	}

	p.logger.Error("stock release failed",
		slog.String("order_id", rel.OrderID.String()),
		slog.Int("attempt", rel.Attempts),
		slog.String("error", err.Error()),
	)
}
