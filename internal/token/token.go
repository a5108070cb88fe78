// Package token — выпуск и проверка сессионных токенов (JWT, HS256).
// Токен несёт публичный профиль пользователя и срок действия; хранится у
// клиента в cookie и никогда не изменяется после выпуска.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims — утверждения сессионного токена: стандартные (jti, iat, exp)
// плюс публичные поля пользователя. Имена JSON-полей — контракт с фронтом.
type Claims struct {
	jwt.RegisteredClaims
	UserID int    `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// Issue подписывает токен секретом сервера. exp = now + ttl.
func Issue(userID int, email, name, role string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Email:  email,
		Name:   name,
		Role:   role,
	})
	return t.SignedString(secret)
}

// Verify проверяет подпись и срок действия. Любая ошибка (подпись, формат,
// истечение) возвращается как ErrInvalidToken — клиенту различие не сообщается.
func Verify(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !t.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
