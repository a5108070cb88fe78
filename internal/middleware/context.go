package middleware

import (
	"context"

	"github.com/hospital/internal/token"
)

type contextKey string

const userKey contextKey = "user"

// WithUser кладёт claims проверенного токена в контекст запроса.
func WithUser(ctx context.Context, c *token.Claims) context.Context {
	return context.WithValue(ctx, userKey, c)
}

// GetUser возвращает claims из контекста (устанавливается Gate) или nil.
func GetUser(ctx context.Context) *token.Claims {
	v, _ := ctx.Value(userKey).(*token.Claims)
	return v
}

// GetUserID возвращает id текущего пользователя; 0, если запрос не аутентифицирован.
func GetUserID(ctx context.Context) int {
	if c := GetUser(ctx); c != nil {
		return c.UserID
	}
	return 0
}
