// Package ratelimit provides a Redis-backed fiber.Storage for the limiter middleware.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LerianStudio/accounts-filing-api/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
)

const (
	// DefaultKeyPrefix namespaces limiter counters of the accounts filing API.
	DefaultKeyPrefix = "accounts-filing:ratelimit:"

	scanBatchSize    = 100
	operationTimeout = 2 * time.Second
)

// RedisStorage implements fiber.Storage so limiter counters are shared
// across every instance of the API.
type RedisStorage struct {
	conn   *redis.Connection
	prefix string
}

// Option configures a RedisStorage.
type Option func(*RedisStorage)

// WithKeyPrefix replaces DefaultKeyPrefix.
func WithKeyPrefix(prefix string) Option {
	return func(s *RedisStorage) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewRedisStorage returns nil when conn is nil.
func NewRedisStorage(conn *redis.Connection, opts ...Option) *RedisStorage {
	if conn == nil {
		return nil
	}

	s := &RedisStorage{conn: conn, prefix: DefaultKeyPrefix}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// withClient runs fn with a bounded context. A nil storage does nothing.
func (s *RedisStorage) withClient(op string, fn func(ctx context.Context, client *goredis.Client) error) error {
	if s == nil || s.conn == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	client, err := s.conn.GetClient(ctx)
	if err != nil {
		return fmt.Errorf("ratelimit %s: %w", op, err)
	}

	if err := fn(ctx, client); err != nil {
		return fmt.Errorf("ratelimit %s: %w", op, err)
	}

	return nil
}

// Get returns nil, nil for a counter that does not exist.
func (s *RedisStorage) Get(key string) ([]byte, error) {
	var val []byte

	err := s.withClient("get", func(ctx context.Context, client *goredis.Client) error {
		got, err := client.Get(ctx, s.prefix+key).Bytes()
		if errors.Is(err, goredis.Nil) {
			return nil
		}

		val = got

		return err
	})

	return val, err
}

// Set ignores empty keys and values. A zero exp never expires.
func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	return s.withClient("set", func(ctx context.Context, client *goredis.Client) error {
		return client.Set(ctx, s.prefix+key, val, exp).Err()
	})
}

func (s *RedisStorage) Delete(key string) error {
	return s.withClient("delete", func(ctx context.Context, client *goredis.Client) error {
		return client.Del(ctx, s.prefix+key).Err()
	})
}

// Reset removes every counter under the prefix and nothing else.
func (s *RedisStorage) Reset() error {
	return s.withClient("reset", func(ctx context.Context, client *goredis.Client) error {
		iter := client.Scan(ctx, 0, s.prefix+"*", scanBatchSize).Iterator()

		batch := make([]string, 0, scanBatchSize)

		for iter.Next(ctx) {
			batch = append(batch, iter.Val())

			if len(batch) == scanBatchSize {
				if err := client.Del(ctx, batch...).Err(); err != nil {
					return err
				}

				batch = batch[:0]
			}
		}

		if err := iter.Err(); err != nil {
			return err
		}

		if len(batch) == 0 {
			return nil
		}

		return client.Del(ctx, batch...).Err()
	})
}

// Close leaves the connection open; it belongs to the application.
func (*RedisStorage) Close() error {
	return nil
}
