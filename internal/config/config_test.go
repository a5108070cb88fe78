package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("AUTH_TOKEN_SECRET", "")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	// Вне production секрет генерируется, процесс не падает.
	assert.NotEmpty(t, cfg.Auth.TokenSecret)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("AUTH_TOKEN_SECRET", "explicit-secret")
	t.Setenv("AUTH_TOKEN_TTL_HOURS", "12")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/hospital")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, "explicit-secret", cfg.Auth.TokenSecret)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "postgres://u:p@db:5432/hospital", cfg.DatabaseURL())
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("SOME_STR", "value")
	t.Setenv("SOME_INT", "7")
	t.Setenv("BAD_INT", "seven")

	assert.Equal(t, "value", envStr("SOME_STR", "fallback"))
	assert.Equal(t, "fallback", envStr("MISSING_STR", "fallback"))
	assert.Equal(t, 7, envInt("SOME_INT", 1))
	assert.Equal(t, 1, envInt("BAD_INT", 1))
	assert.Equal(t, 1, envInt("MISSING_INT", 1))
}
