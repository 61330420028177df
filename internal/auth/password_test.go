package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)

	hash1, err := h.Hash("password123")
	require.NoError(t, err)
	hash2, err := h.Hash("password123")
	require.NoError(t, err)

	assert.NotEqual(t, "password123", hash1)
	assert.NotEqual(t, hash1, hash2, "salts must differ")
	assert.True(t, h.Verify(hash1, "password123"))
	assert.True(t, h.Verify(hash2, "password123"))
	assert.False(t, h.Verify(hash1, "password124"))
	assert.False(t, h.Verify("", "password123"))

	h.Burn("anything")
}

func TestPasswordHasher_TooLong(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)
	_, err := h.Hash(strings.Repeat("x", 73))
	assert.True(t, IsTooLong(err))
}
