package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/PhamQuy48/storefront/internal/server/http/dto"
	"github.com/PhamQuy48/storefront/internal/stream"
)

// StreamHandler serves the live notification channel as server-sent events.
type StreamHandler struct {
	facade    StreamFacade
	heartbeat time.Duration
	retry     time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewStreamHandler constructs StreamHandler. heartbeat is the idle keep-alive
// period; retry is the reconnect delay advertised to clients.
func NewStreamHandler(facade StreamFacade, heartbeat, retry time.Duration, logger *slog.Logger) *StreamHandler {
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamHandler{facade: facade, heartbeat: heartbeat, retry: retry, logger: logger, now: time.Now}
}

// Stream handles GET /api/notifications/stream. The channel is registered
// before the unread baseline is read, so nothing published in between is lost.
func (h *StreamHandler) Stream(c *gin.Context) {
	identity := CurrentIdentity(c)
	sub, err := h.facade.Subscribe(identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, stream.ErrInvalidUser):
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "authentication required"})
		case errors.Is(err, stream.ErrClosed):
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "server is shutting down"})
		default:
			writeError(c, err)
		}
		return
	}
	defer h.facade.Unsubscribe(sub)

	ctx := c.Request.Context()
	unread, err := h.facade.UnreadCount(ctx, identity.UserID)
	if err != nil {
		writeError(c, err)
		return
	}

	header := c.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	connected := sse.Event{
		Event: stream.EventConnected,
		Data:  stream.ConnectedPayload{UserID: identity.UserID, UnreadCount: unread},
	}
	if h.retry > 0 {
		connected.Retry = uint(h.retry.Milliseconds())
	}
	if !h.write(c, sub, connected) {
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done():
			return
		case ev := <-sub.Events():
			if !h.write(c, sub, sse.Event{Event: ev.Name, Id: ev.ID, Data: ev.Data}) {
				return
			}
		case <-ticker.C:
			beat := sse.Event{Event: stream.EventHeartbeat, Data: stream.HeartbeatPayload{Time: h.now().UTC()}}
			if !h.write(c, sub, beat) {
				return
			}
		}
	}
}

func (h *StreamHandler) write(c *gin.Context, sub *stream.Subscription, ev sse.Event) bool {
	if err := sse.Encode(c.Writer, ev); err != nil {
		h.logger.Debug("stream write failed",
			slog.Int64("user_id", sub.UserID()),
			slog.Uint64("subscription", sub.ID()),
			slog.String("error", err.Error()),
		)
		return false
	}
	c.Writer.Flush()
	return true
}
