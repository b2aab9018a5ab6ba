// Package notifyclient is a reference subscriber for the storefront
// notification stream. It owns the reconnect policy: a fixed delay between
// attempts, a full resync against the notification log after every
// connected event, and deduplication by notification id.
package notifyclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

const (
	streamPath = "/api/notifications/stream"
	listPath   = "/api/notifications"

	defaultReconnectDelay   = 3 * time.Second
	defaultHeartbeatTimeout = time.Minute
	defaultResyncLimit      = 50
	dedupWindow             = 1024
)

var (
	// ErrUnauthorized is returned by Run when the server rejects the token.
	ErrUnauthorized = errors.New("notifyclient: token rejected")

	errHeartbeatTimeout = errors.New("notifyclient: no heartbeat")
)

// Handlers receive stream updates. They are called from the Run goroutine,
// one at a time. Nil handlers are skipped.
type Handlers struct {
	// Notification is called once per notification id.
	Notification func(Notification)
	// UnreadCount is called with every authoritative counter value.
	UnreadCount func(int64)
}

// Options tune the client. Zero values select defaults.
type Options struct {
	HTTPClient       *http.Client
	ReconnectDelay   time.Duration
	HeartbeatTimeout time.Duration
	ResyncLimit      int
	Logger           *slog.Logger
}

// Client keeps one notification stream open for a user.
type Client struct {
	baseURL     string
	token       string
	http        *http.Client
	delay       time.Duration
	heartbeat   time.Duration
	resyncLimit int
	handlers    Handlers
	logger      *slog.Logger

	seen   map[string]struct{}
	order  []string
	unread atomic.Int64
}

// New constructs a Client for the API rooted at baseURL.
func New(baseURL, token string, handlers Handlers, opts Options) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		http:        opts.HTTPClient,
		delay:       opts.ReconnectDelay,
		heartbeat:   opts.HeartbeatTimeout,
		resyncLimit: opts.ResyncLimit,
		handlers:    handlers,
		logger:      opts.Logger,
		seen:        make(map[string]struct{}),
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.delay <= 0 {
		c.delay = defaultReconnectDelay
	}
	if c.heartbeat <= 0 {
		c.heartbeat = defaultHeartbeatTimeout
	}
	if c.resyncLimit <= 0 {
		c.resyncLimit = defaultResyncLimit
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Unread returns the last known unread counter.
func (c *Client) Unread() int64 {
	return c.unread.Load()
}

// Run keeps the stream open until ctx is cancelled or the token is rejected.
func (c *Client) Run(ctx context.Context) error {
	for {
		err := c.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.Is(err, ErrUnauthorized) {
			return err
		}

		c.logger.Warn("notification stream dropped, reconnecting",
			slog.Duration("delay", c.delay),
			slog.Any("error", err),
		)
		timer := time.NewTimer(c.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (c *Client) session(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := c.newRequest(ctx, streamPath, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}

	events := make(chan event)
	errs := make(chan error, 1)
	go func() {
		reader := newEventReader(resp.Body)
		for {
			ev, err := reader.Next()
			if err != nil {
				errs <- err
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	idle := time.NewTimer(c.heartbeat)
	defer idle.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errs:
			return err
		case <-idle.C:
			return errHeartbeatTimeout
		case ev := <-events:
			idle.Reset(c.heartbeat)
			if err := c.handle(ctx, ev); err != nil {
				return err
			}
		}
	}
}

func (c *Client) handle(ctx context.Context, ev event) error {
	switch ev.Name {
	case "connected":
		if ev.Retry > 0 {
			c.delay = ev.Retry
		}
		var p connectedPayload
		if err := json.Unmarshal([]byte(ev.Data), &p); err != nil {
			return fmt.Errorf("decode connected event: %w", err)
		}
		c.setUnread(p.UnreadCount)
		return c.resync(ctx)
	case "notification":
		var n Notification
		if err := json.Unmarshal([]byte(ev.Data), &n); err != nil {
			return fmt.Errorf("decode notification event: %w", err)
		}
		if n.ID == "" {
			n.ID = ev.ID
		}
		c.deliver(n)
	case "unread_count":
		var p unreadPayload
		if err := json.Unmarshal([]byte(ev.Data), &p); err != nil {
			return fmt.Errorf("decode unread_count event: %w", err)
		}
		c.setUnread(p.UnreadCount)
	case "heartbeat":
	default:
		c.logger.Debug("ignoring stream event", slog.String("event", ev.Name))
	}
	return nil
}

// resync replays the notification log oldest first so anything missed while
// disconnected reaches the handlers exactly once.
func (c *Client) resync(ctx context.Context) error {
	query := url.Values{"limit": []string{strconv.Itoa(c.resyncLimit)}}
	req, err := c.newRequest(ctx, listPath, query)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("resync: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return fmt.Errorf("decode resync: %w", err)
	}
	for i := len(snap.Items) - 1; i >= 0; i-- {
		c.deliver(snap.Items[i])
	}
	c.setUnread(snap.UnreadCount)
	return nil
}

func (c *Client) deliver(n Notification) {
	if n.ID == "" {
		return
	}
	if _, ok := c.seen[n.ID]; ok {
		return
	}
	c.seen[n.ID] = struct{}{}
	c.order = append(c.order, n.ID)
	if len(c.order) > dedupWindow {
		delete(c.seen, c.order[0])
		c.order = c.order[1:]
	}
	if c.handlers.Notification != nil {
		c.handlers.Notification(n)
	}
}

func (c *Client) setUnread(unread int64) {
	c.unread.Store(unread)
	if c.handlers.UnreadCount != nil {
		c.handlers.UnreadCount(unread)
	}
}

func (c *Client) newRequest(ctx context.Context, path string, query url.Values) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	return req, nil
}

func checkStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return fmt.Errorf("%s: unexpected status %d", resp.Request.URL.Path, resp.StatusCode)
	}
}
