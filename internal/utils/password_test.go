package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Secret123!", 4)
	require.NoError(t, err)
	require.NotEqual(t, "Secret123!", hash)

	ok, err := VerifyPassword(hash, "Secret123!")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_Mismatch(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Secret123!", 4)
	require.NoError(t, err)

	ok, err := VerifyPassword(hash, "wrong-password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_MalformedStoredHash(t *testing.T) {
	t.Parallel()

	ok, err := VerifyPassword("not-a-bcrypt-hash", "anything")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestHash_Salted(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same-password", 4)
	require.NoError(t, err)
	h2, err := HashPassword("same-password", 4)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
