package repository

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIDFormat(t *testing.T) {
	t.Parallel()

	id := GenerateID("P")
	require.True(t, strings.HasPrefix(id, "P-"), "id %q", id)

	digits := strings.TrimPrefix(id, "P-")
	// 6 цифр от времени + 3 случайные.
	require.Len(t, digits, 9)
	_, err := strconv.Atoi(digits)
	assert.NoError(t, err, "после префикса только цифры: %q", id)
}

func TestGenerateIDPrefixes(t *testing.T) {
	t.Parallel()

	for _, prefix := range []string{"APT", "MED", "LAB", "INV"} {
		id := GenerateID(prefix)
		assert.True(t, strings.HasPrefix(id, prefix+"-"), "id %q", id)
		// Вписывается в VARCHAR(20) колонок *_id.
		assert.LessOrEqual(t, len(id), 20)
	}
}
