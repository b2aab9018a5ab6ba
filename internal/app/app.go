package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/PhamQuy48/storefront/internal/config"
	"github.com/PhamQuy48/storefront/internal/stream"
	"github.com/PhamQuy48/storefront/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewStorefrontFacade,
		newHTTPServer,
		newStockReleaseProcessor,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
	Broker *stream.Broker `optional:"true"`
}

func newHTTPServer(p serverParams) *http.Server {
	srv := &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
	// Notification streams never finish on their own; closing the broker
	// ends them so Shutdown can drain.
	if p.Broker != nil {
		srv.RegisterOnShutdown(p.Broker.Close)
	}
	return srv
}

type workerParams struct {
	fx.In

	Facade *StorefrontFacade
	Config *config.Config
	Logger *slog.Logger
}

func newStockReleaseProcessor(p workerParams) *worker.StockReleaseProcessor {
	return worker.NewStockReleaseProcessor(
		p.Facade,
		p.Config.StockPollInterval,
		p.Config.StockBatchSize,
		p.Config.WorkerPoolSize,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.StockReleaseProcessor
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting storefront", slog.String("addr", p.Server.Addr))
			p.Worker.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("storefront stopped")
			return nil
		},
	})
}
