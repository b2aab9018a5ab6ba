package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/PhamQuy48/storefront/internal/config"
	"github.com/PhamQuy48/storefront/internal/server/http/handlers"
	"github.com/PhamQuy48/storefront/internal/server/http/middleware"
)

// StreamPath is the server-sent events endpoint. It bypasses response
// compression.
const StreamPath = "/api/notifications/stream"

// Params collects router dependencies.
type Params struct {
	fx.In

	Facade handlers.StorefrontFacade
	Config *config.Config
	Logger *slog.Logger
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(p.Logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(middleware.Compression(StreamPath))

	orderHandler := handlers.NewOrderHandler(p.Facade)
	voucherHandler := handlers.NewVoucherHandler(p.Facade)
	notificationHandler := handlers.NewNotificationHandler(p.Facade)
	streamHandler := handlers.NewStreamHandler(p.Facade, p.Config.StreamHeartbeatInterval, p.Config.StreamReconnectDelay, p.Logger)
	healthHandler := handlers.NewHealthHandler(p.Facade)
	sessionHandler := handlers.NewSessionHandler()

	engine.GET("/healthz", healthHandler.Check)

	api := engine.Group("/api")
	api.POST("/vouchers/validate", voucherHandler.Validate)
	api.GET("/notifications/stream", middleware.StreamAuthRequired(p.Facade), streamHandler.Stream)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(p.Facade))
	authed.GET("/session", sessionHandler.Current)

	authed.POST("/orders", orderHandler.Checkout)
	authed.GET("/orders", orderHandler.List)
	authed.GET("/orders/:id", orderHandler.Get)
	authed.GET("/orders/:id/history", orderHandler.History)
	authed.PATCH("/orders/:id", orderHandler.Transition)
	authed.PATCH("/orders/:id/payment", orderHandler.RecordPayment)

	authed.GET("/notifications", notificationHandler.List)
	authed.PATCH("/notifications", notificationHandler.Mark)
	authed.DELETE("/notifications", notificationHandler.Delete)

	return engine
}
