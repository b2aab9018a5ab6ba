package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress              string
	DatabaseURI             string
	InventoryServiceAddress string
	AuthSecret              string
	AuthStrategy            string
	TokenTTL                time.Duration
	AMQPURL                 string
	AMQPExchange            string
	RedisAddr               string
	RedisChannel            string
	StreamHeartbeatInterval time.Duration
	StreamReconnectDelay    time.Duration
	StreamBuffer            int
	TransitionMaxAttempts   int
	ShippingFee             decimal.Decimal
	FreeShippingThreshold   decimal.Decimal
	Locale                  string
	LogLevel                string
	StockPollInterval       time.Duration
	WorkerPoolSize          int
	StockBatchSize          int
	ShutdownTimeout         time.Duration
}

const (
	defaultRunAddress              = ":8080"
	defaultAuthSecret              = "change-me-in-production"
	defaultAuthStrategy            = "hmac"
	defaultTokenTTL                = 24 * time.Hour
	defaultAMQPExchange            = "storefront.orders"
	defaultRedisChannel            = "storefront:notifications"
	defaultStreamHeartbeatInterval = 25 * time.Second
	defaultStreamReconnectDelay    = 3 * time.Second
	defaultStreamBuffer            = 16
	defaultTransitionMaxAttempts   = 3
	defaultShippingFee             = "30000"
	defaultFreeShippingThreshold   = "500000"
	defaultLocale                  = "en"
	defaultLogLevel                = "info"
	defaultStockPollInterval       = 5 * time.Second
	defaultWorkerPoolSize          = 4
	defaultStockBatchSize          = 32
	defaultShutdownTimeout         = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:              getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:             getString(lookup, "DATABASE_URI", ""),
		InventoryServiceAddress: getString(lookup, "INVENTORY_SERVICE_ADDRESS", ""),
		AuthSecret:              getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		AuthStrategy:            getString(lookup, "AUTH_STRATEGY", defaultAuthStrategy),
		TokenTTL:                getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		AMQPURL:                 getString(lookup, "AMQP_URL", ""),
		AMQPExchange:            getString(lookup, "AMQP_EXCHANGE", defaultAMQPExchange),
		RedisAddr:               getString(lookup, "REDIS_ADDR", ""),
		RedisChannel:            getString(lookup, "REDIS_CHANNEL", defaultRedisChannel),
		StreamHeartbeatInterval: getDuration(lookup, "STREAM_HEARTBEAT_INTERVAL", defaultStreamHeartbeatInterval),
		StreamReconnectDelay:    getDuration(lookup, "STREAM_RECONNECT_DELAY", defaultStreamReconnectDelay),
		StreamBuffer:            getInt(lookup, "STREAM_BUFFER", defaultStreamBuffer),
		TransitionMaxAttempts:   getInt(lookup, "TRANSITION_MAX_ATTEMPTS", defaultTransitionMaxAttempts),
		Locale:                  getString(lookup, "LOCALE", defaultLocale),
		LogLevel:                getString(lookup, "LOG_LEVEL", defaultLogLevel),
		StockPollInterval:       getDuration(lookup, "STOCK_POLL_INTERVAL", defaultStockPollInterval),
		WorkerPoolSize:          getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		StockBatchSize:          getInt(lookup, "STOCK_BATCH_SIZE", defaultStockBatchSize),
		ShutdownTimeout:         getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		heartbeatStr       = cfg.StreamHeartbeatInterval.String()
		pollIntervalStr    = cfg.StockPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		shippingFeeStr     = getString(lookup, "SHIPPING_FEE", defaultShippingFee)
		freeShippingStr    = getString(lookup, "FREE_SHIPPING_THRESHOLD", defaultFreeShippingThreshold)
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.InventoryServiceAddress, "i", cfg.InventoryServiceAddress, "Inventory service base URL")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for verifying auth tokens")
	fs.StringVar(&cfg.AuthStrategy, "auth-strategy", cfg.AuthStrategy, "Token format: hmac or jwt")
	fs.StringVar(&cfg.AMQPURL, "amqp", cfg.AMQPURL, "AMQP broker URL for order events")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for notification fan-out")
	fs.StringVar(&heartbeatStr, "heartbeat", heartbeatStr, "Notification stream heartbeat interval")
	fs.StringVar(&shippingFeeStr, "shipping-fee", shippingFeeStr, "Flat shipping fee")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent stock release workers")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between stock release polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.StreamHeartbeatInterval, err = time.ParseDuration(heartbeatStr); err != nil {
		return nil, fmt.Errorf("invalid heartbeat interval: %w", err)
	}

	if cfg.StockPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.ShippingFee, err = decimal.NewFromString(shippingFeeStr); err != nil {
		return nil, fmt.Errorf("invalid shipping fee: %w", err)
	}

	if cfg.FreeShippingThreshold, err = decimal.NewFromString(freeShippingStr); err != nil {
		return nil, fmt.Errorf("invalid free shipping threshold: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = strings.TrimSpace(string(content))
	}

	cfg.AuthStrategy = strings.ToLower(strings.TrimSpace(cfg.AuthStrategy))
	switch cfg.AuthStrategy {
	case "hmac", "jwt":
	default:
		return nil, fmt.Errorf("unknown auth strategy %q", cfg.AuthStrategy)
	}

	if cfg.ShippingFee.IsNegative() {
		return nil, fmt.Errorf("shipping fee must not be negative")
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.StreamHeartbeatInterval <= 0 {
		cfg.StreamHeartbeatInterval = defaultStreamHeartbeatInterval
	}

	if cfg.StreamReconnectDelay <= 0 {
		cfg.StreamReconnectDelay = defaultStreamReconnectDelay
	}

	if cfg.StreamBuffer <= 0 {
		cfg.StreamBuffer = defaultStreamBuffer
	}

	if cfg.TransitionMaxAttempts <= 0 {
		cfg.TransitionMaxAttempts = defaultTransitionMaxAttempts
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.StockBatchSize <= 0 {
		cfg.StockBatchSize = defaultStockBatchSize
	}

	if cfg.StockPollInterval <= 0 {
		cfg.StockPollInterval = defaultStockPollInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
