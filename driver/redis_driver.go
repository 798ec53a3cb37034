// Package driver provides implementations for external dependencies.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"visitboard/domain"
)

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	Host        string
	Port        int
	Password    string
	DB          int
	DialTimeout time.Duration
}

// RedisDriver implements CounterPort using Redis INCR.
type RedisDriver struct {
	client *redis.Client
}

// NewRedisDriver creates a new Redis driver. The client's own retries are
// disabled so the caller controls the attempt budget.
func NewRedisDriver(opts RedisOptions) *RedisDriver {
	dialTimeout := opts.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 2 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:        net.JoinHostPort(opts.Host, fmt.Sprintf("%d", opts.Port)),
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: dialTimeout,
		MaxRetries:  -1,
	})

	return &RedisDriver{client: client}
}

// NewRedisDriverWithURL creates a new Redis driver from a URL.
func NewRedisDriverWithURL(url string) (*RedisDriver, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	opts.MaxRetries = -1

	return &RedisDriver{client: redis.NewClient(opts)}, nil
}

// Close closes the Redis connection.
func (d *RedisDriver) Close() error {
	return d.client.Close()
}

// Incr increments the counter and returns the new value.
func (d *RedisDriver) Incr(ctx context.Context, key domain.CounterKey) (int64, error) {
	value, err := d.client.Incr(ctx, key.String()).Result()
	if err != nil {
		return 0, classifyRedisError(err)
	}
	return value, nil
}

// Ping checks if Redis is available.
func (d *RedisDriver) Ping(ctx context.Context) error {
	if err := d.client.Ping(ctx).Err(); err != nil {
		return classifyRedisError(err)
	}
	return nil
}

// classifyRedisError wraps connectivity failures in domain.ErrStoreUnavailable.
// Server replies (WRONGTYPE, NOAUTH, ...) and context errors pass through.
func classifyRedisError(err error) error {
	if isRedisTransient(err) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return err
}

func isRedisTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var replyErr redis.Error
	if errors.As(err, &replyErr) {
		// LOADING and similar server-side states are still connectivity problems.
		msg := replyErr.Error()
		return strings.HasPrefix(msg, "LOADING ") ||
			strings.HasPrefix(msg, "TRYAGAIN ") ||
			strings.HasPrefix(msg, "CLUSTERDOWN ")
	}

	if errors.Is(err, redis.ErrPoolTimeout) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
