package memory

import (
	"context"
	"sync"
	"time"
)

const (
	loginLimitWindow = 600 * time.Second
	loginLimitMax    = 10
)

// Client — in-memory замена Redis для -dev: скользящее окно попыток входа.
type Client struct {
	mu    sync.Mutex
	limit map[string][]time.Time
}

func New() *Client {
	return &Client{limit: make(map[string][]time.Time)}
}

func (c *Client) Close() error { return nil }

func (c *Client) CheckLoginLimit(ctx context.Context, email string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	cut := now.Add(-loginLimitWindow)
	var kept []time.Time
	for _, t := range c.limit[email] {
		if t.After(cut) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= loginLimitMax {
		c.limit[email] = kept
		return false, nil
	}
	kept = append(kept, now)
	c.limit[email] = kept
	return true, nil
}

func (c *Client) ResetLoginLimit(ctx context.Context, email string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.limit, email)
	return nil
}
