package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-0123456789abcdef")

func TestIssueVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	tok, err := Issue(42, "doctor1@hospital.com", "Dr. John Smith", "Doctor", testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := Verify(tok, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "doctor1@hospital.com", claims.Email)
	assert.Equal(t, "Dr. John Smith", claims.Name)
	assert.Equal(t, "Doctor", claims.Role)
	assert.NotEmpty(t, claims.ID, "jti должен быть заполнен")
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	tok, err := Issue(1, "a@b.com", "A", "user", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = Verify(tok, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := Issue(1, "a@b.com", "A", "user", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = Verify(tok, []byte("another-secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTamperedPayload(t *testing.T) {
	t.Parallel()

	tok, err := Issue(1, "a@b.com", "A", "user", testSecret, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	// Портим payload, подпись остаётся от оригинала.
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = Verify(tampered, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()

	for _, tok := range []string{"", "abc", "a.b.c", "Bearer xyz"} {
		_, err := Verify(tok, testSecret)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestIssueUniqueJTI(t *testing.T) {
	t.Parallel()

	t1, err := Issue(1, "a@b.com", "A", "user", testSecret, time.Hour)
	require.NoError(t, err)
	t2, err := Issue(1, "a@b.com", "A", "user", testSecret, time.Hour)
	require.NoError(t, err)

	c1, err := Verify(t1, testSecret)
	require.NoError(t, err)
	c2, err := Verify(t2, testSecret)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}
