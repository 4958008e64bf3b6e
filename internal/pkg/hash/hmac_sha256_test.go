package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACSHA256(t *testing.T) {
	h := NewHMACSHA256("pepper")

	sum, err := h.Hash("a1a1")
	require.NoError(t, err)
	assert.Len(t, sum, 64)

	assert.True(t, h.Verify(string(sum), "a1a1"))
	assert.False(t, h.Verify(string(sum), "a1a2"))

	other, err := NewHMACSHA256("salt").Hash("a1a1")
	require.NoError(t, err)
	assert.NotEqual(t, sum, other)
}

func TestHMACSHA256_VerifyInput(t *testing.T) {
	h := NewHMACSHA256("pepper")

	sum, err := h.Hash("a1a1")
	require.NoError(t, err)

	assert.True(t, h.Verify(strings.ToUpper(string(sum)), "a1a1"))
	assert.False(t, h.Verify("zz", "a1a1"))
	assert.False(t, h.Verify("", "a1a1"))
}
