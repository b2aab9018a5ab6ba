package redisrelay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/PhamQuy48/storefront/internal/domain/model"
	"github.com/PhamQuy48/storefront/internal/usecase"
)

const (
	kindNotification = "notification"
	kindUnreadCount  = "unread_count"

	publishTimeout = 2 * time.Second
)

// envelope is the pub/sub payload shared by every instance.
type envelope struct {
	Kind         string              `json:"kind"`
	UserID       int64               `json:"userId"`
	Notification *model.Notification `json:"notification,omitempty"`
	Unread       int64               `json:"unread"`
}

// Relay fans notifications out to every instance through Redis pub/sub.
// Each instance hands received envelopes to its local broker. Without a
// client, or when Redis rejects a publish, delivery stays local.
type Relay struct {
	local   usecase.NotificationPublisher
	client  redis.UniversalClient
	channel string
	logger  *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// New builds Relay. client may be nil.
func New(local usecase.NotificationPublisher, client redis.UniversalClient, channel string, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{local: local, client: client, channel: channel, logger: logger}
}

// PublishNotification implements usecase.NotificationPublisher.
func (r *Relay) PublishNotification(userID int64, n model.Notification) {
	if !r.publish(envelope{Kind: kindNotification, UserID: userID, Notification: &n}) {
		r.local.PublishNotification(userID, n)
	}
}

// PublishUnreadCount implements usecase.NotificationPublisher.
func (r *Relay) PublishUnreadCount(userID int64, unread int64) {
	if !r.publish(envelope{Kind: kindUnreadCount, UserID: userID, Unread: unread}) {
		r.local.PublishUnreadCount(userID, unread)
	}
}

// publish reports whether env was handed to Redis.
func (r *Relay) publish(env envelope) bool {
	if r.client == nil {
		return false
	}

	body, err := json.Marshal(env)
	if err != nil {
		r.logger.Error("failed to encode relay envelope", slog.Any("error", err))
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := r.client.Publish(ctx, r.channel, body).Err(); err != nil {
		r.logger.Warn("redis publish failed, delivering locally",
			slog.String("kind", env.Kind),
			slog.Int64("user_id", env.UserID),
			slog.Any("error", err),
		)
		return false
	}
	return true
}

// Start subscribes to the relay channel and forwards envelopes to the local
// broker until Stop is called.
func (r *Relay) Start(ctx context.Context) error {
	if r.client == nil {
		return nil
	}

	sub := r.client.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-runCtx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				if err := r.dispatch(msg.Payload); err != nil {
					r.logger.Warn("dropping relay message", slog.Any("error", err))
				}
			}
		}
	}()

	r.logger.Info("notification relay subscribed", slog.String("channel", r.channel))
	return nil
}

// Stop ends the subscription.
func (r *Relay) Stop(ctx context.Context) error {
	if r.cancel == nil {
		return nil
	}
	r.cancel()
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Relay) dispatch(payload string) error {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if env.UserID <= 0 {
		return errors.New("envelope without user")
	}

	switch env.Kind {
	case kindNotification:
		if env.Notification == nil {
			return errors.New("notification envelope without payload")
		}
		r.local.PublishNotification(env.UserID, *env.Notification)
	case kindUnreadCount:
		r.local.PublishUnreadCount(env.UserID, env.Unread)
	default:
		return fmt.Errorf("unknown envelope kind %q", env.Kind)
	}
	return nil
}
