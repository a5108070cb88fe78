package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckLoginLimitWindow(t *testing.T) {
	t.Parallel()

	c := New()
	ctx := context.Background()

	for i := 0; i < loginLimitMax; i++ {
		ok, err := c.CheckLoginLimit(ctx, "a@b.com")
		require.NoError(t, err)
		assert.True(t, ok, "попытка %d должна проходить", i+1)
	}

	ok, err := c.CheckLoginLimit(ctx, "a@b.com")
	require.NoError(t, err)
	assert.False(t, ok, "попытка сверх лимита должна блокироваться")

	// Лимит считается на email, другой адрес не затронут.
	ok, err = c.CheckLoginLimit(ctx, "other@b.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResetLoginLimit(t *testing.T) {
	t.Parallel()

	c := New()
	ctx := context.Background()

	for i := 0; i < loginLimitMax; i++ {
		_, err := c.CheckLoginLimit(ctx, "a@b.com")
		require.NoError(t, err)
	}
	ok, err := c.CheckLoginLimit(ctx, "a@b.com")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.ResetLoginLimit(ctx, "a@b.com"))

	ok, err = c.CheckLoginLimit(ctx, "a@b.com")
	require.NoError(t, err)
	assert.True(t, ok, "после сброса попытки снова разрешены")
}
