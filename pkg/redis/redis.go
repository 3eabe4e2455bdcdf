package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/LerianStudio/accounts-filing-api/pkg/constant"
	"github.com/LerianStudio/accounts-filing-api/pkg/log"
	"github.com/LerianStudio/accounts-filing-api/pkg/opentelemetry"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultDialTimeout = 5 * time.Second
	defaultPoolSize    = 10
)

var (
	// ErrNilClient is returned when a redis connection receiver is nil.
	ErrNilClient = errors.New("redis client is nil")
	// ErrInvalidConfig indicates the provided redis configuration is invalid.
	ErrInvalidConfig = errors.New("invalid redis config")
)

// Config defines a standalone Redis connection.
type Config struct {
	Address     string
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
	Logger      log.Logger
}

// String redacts the password.
func (c Config) String() string {
	return fmt.Sprintf("redis.Config{Address:%s DB:%d Password:REDACTED}", c.Address, c.DB)
}

// Connection holds a go-redis client created on first use.
type Connection struct {
	mu     sync.Mutex
	cfg    Config
	client *redis.Client
}

// New validates cfg. The client is created by Connect or GetClient.
func New(cfg Config) (*Connection, error) {
	if strings.TrimSpace(cfg.Address) == "" {
		return nil, fmt.Errorf("%w: address is required", ErrInvalidConfig)
	}

	if cfg.DB < 0 {
		return nil, fmt.Errorf("%w: db must be non-negative", ErrInvalidConfig)
	}

	if cfg.PoolSize <= 0 {
		cfg.PoolSize = defaultPoolSize
	}

	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}

	if cfg.Logger == nil {
		cfg.Logger = log.NewNop()
	}

	return &Connection{cfg: cfg}, nil
}

// Connect creates the client and pings the server.
func (c *Connection) Connect(ctx context.Context) error {
	if c == nil {
		return ErrNilClient
	}

	ctx, span := otel.Tracer("redis").Start(ctx, "redis.connect")
	defer span.End()

	span.SetAttributes(attribute.String(constant.AttrDBSystem, constant.DBSystemRedis))

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:        c.cfg.Address,
		Password:    c.cfg.Password,
		DB:          c.cfg.DB,
		PoolSize:    c.cfg.PoolSize,
		DialTimeout: c.cfg.DialTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		opentelemetry.HandleSpanError(span, "Failed to ping redis", err)

		return fmt.Errorf("redis ping: %w", err)
	}

	c.client = client

	c.cfg.Logger.Log(ctx, log.LevelInfo, "connected to redis", log.String("address", c.cfg.Address))

	return nil
}

// GetClient returns the client, connecting first if needed.
func (c *Connection) GetClient(ctx context.Context) (*redis.Client, error) {
	if c == nil {
		return nil, ErrNilClient
	}

	c.mu.Lock()
	client := c.client
	c.mu.Unlock()

	if client != nil {
		return client, nil
	}

	if err := c.Connect(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.client, nil
}

// Close releases the client. Closing an unconnected Connection is a no-op.
func (c *Connection) Close() error {
	if c == nil {
		return ErrNilClient
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}

	err := c.client.Close()
	c.client = nil

	return err
}
