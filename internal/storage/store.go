package storage

import "context"

// LoginLimitStore — учёт попыток входа по email для rate limit логина.
// Реализации: redis.Client, memory.Client (для -dev без Redis).
type LoginLimitStore interface {
	CheckLoginLimit(ctx context.Context, email string) (allowed bool, err error)
	ResetLoginLimit(ctx context.Context, email string) error
	Close() error
}
