package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospital/internal/token"
)

func TestRateLimiterAllow(t *testing.T) {
	t.Parallel()

	rl := newRateLimiter(3, time.Minute)
	for i := 0; i < 3; i++ {
		assert.True(t, rl.allow("a"), "запрос %d должен пройти", i+1)
	}
	assert.False(t, rl.allow("a"), "4-й запрос должен быть отклонён")
	assert.True(t, rl.allow("b"), "другой ключ не затрагивается")
}

func TestRateLimitAPIPerUser(t *testing.T) {
	t.Parallel()

	h := RateLimitAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Уникальный IP на каждый запрос, чтобы сработал именно лимит по user id.
	claims := &token.Claims{UserID: 9001, Email: "doctor1@hospital.com", Role: "Doctor"}
	do := func(i int) int {
		req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
		req.Header.Set("X-Real-Ip", fmt.Sprintf("10.9.%d.%d", i/250, i%250))
		req = req.WithContext(WithUser(req.Context(), claims))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < rateLimitMaxUser; i++ {
		require.Equal(t, http.StatusOK, do(i), "запрос %d должен пройти", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, do(rateLimitMaxUser))
}

func TestRateLimitAPIPerIP(t *testing.T) {
	t.Parallel()

	h := RateLimitAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)
		req.Header.Set("X-Real-Ip", "198.51.100.7")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < rateLimitMaxIP; i++ {
		require.Equal(t, http.StatusOK, do(), "запрос %d должен пройти", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, do())
}
