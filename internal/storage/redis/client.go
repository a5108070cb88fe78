package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Rate limit логина: 10 попыток / 10 минут на email. При превышении — HTTP 429.
const (
	LoginLimitWindow = 600 // 10 минут
	LoginLimitMax    = 10  // попыток за окно
)

type Client struct {
	cli *redis.Client
}

func New(ctx context.Context, url string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis parse url: %w", err)
	}
	cli := redis.NewClient(opts)
	if err := cli.Ping(ctx).Err(); err != nil {
		if closeErr := cli.Close(); closeErr != nil {
			return nil, fmt.Errorf("redis ping: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{cli: cli}, nil
}

func (c *Client) Close() error {
	return c.cli.Close()
}

// CheckLoginLimit проверяет login_limit:{email}: макс. LoginLimitMax попыток за окно.
func (c *Client) CheckLoginLimit(ctx context.Context, email string) (allowed bool, err error) {
	key := "login_limit:" + email
	n, err := c.cli.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		c.cli.Expire(ctx, key, LoginLimitWindow*time.Second)
	}
	return n <= int64(LoginLimitMax), nil
}

// ResetLoginLimit сбрасывает счётчик после успешного входа.
func (c *Client) ResetLoginLimit(ctx context.Context, email string) error {
	return c.cli.Del(ctx, "login_limit:"+email).Err()
}
