package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/PhamQuy48/storefront/internal/domain/model"
)

// TooManyRequestsError represents rate limiting signal from inventory service.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// HTTPClient returns reserved stock through the inventory HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type releaseLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type releaseRequest struct {
	OrderID string        `json:"orderId"`
	Lines   []releaseLine `json:"lines"`
}

// NewHTTPClient creates HTTP inventory client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse inventory url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("inventory url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Release asks inventory to return the stock held for orderID. The call is
// idempotent on the inventory side, so an unknown order counts as released.
func (c *HTTPClient) Release(ctx context.Context, orderID uuid.UUID, lines []model.OrderLine) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/stock/release")

	payload := releaseRequest{OrderID: orderID.String(), Lines: make([]releaseLine, 0, len(lines))}
	for _, l := range lines {
		payload.Lines = append(payload.Lines, releaseLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", orderID.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusAccepted:
		return nil
	case http.StatusNotFound:
		c.logger.Warn("inventory does not know order", slog.String("order_id", orderID.String()))
		return nil
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return TooManyRequestsError{RetryAfter: retryAfter}
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("inventory request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return fmt.Errorf("inventory error: %s", resp.Status)
	}
}

// Nop releases nothing. It is used when no inventory service is configured.
type Nop struct {
	Logger *slog.Logger
}

// Release logs the request and succeeds.
func (n Nop) Release(_ context.Context, orderID uuid.UUID, lines []model.OrderLine) error {
	if n.Logger != nil {
		n.Logger.Debug("inventory disabled, stock release skipped",
			slog.String("order_id", orderID.String()),
			slog.Int("lines", len(lines)),
		)
	}
	return nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
