package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCodec() *Codec {
	return NewCodec("access-secret", "refresh-secret", "reset-secret",
		15*time.Minute, 7*24*time.Hour, time.Hour)
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()
	c := testCodec()

	for _, p := range []Purpose{PurposeAccess, PurposeRefresh, PurposeReset} {
		value, exp, err := c.Issue(42, p)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(c.TTL(p)), exp, 5*time.Second)

		subject, err := c.Verify(value, p)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), subject)
	}
}

func TestVerify_WrongPurposeSecret(t *testing.T) {
	t.Parallel()
	c := testCodec()

	value, _, err := c.Issue(7, PurposeRefresh)
	require.NoError(t, err)

	_, err = c.Verify(value, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()
	c := NewCodec("a", "b", "c", -time.Minute, -time.Minute, -time.Minute)

	value, _, err := c.Issue(7, PurposeReset)
	require.NoError(t, err)

	_, err = c.Verify(value, PurposeReset)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()
	c := testCodec()

	_, err := c.Verify("not.a.token", PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_UnknownPurpose(t *testing.T) {
	t.Parallel()
	c := testCodec()

	_, err := c.Verify("whatever", Purpose("session"))
	assert.ErrorIs(t, err, ErrUnknownPurpose)
}

func TestFingerprint_StableAndDistinct(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Fingerprint("abc"), Fingerprint("abc"))
	assert.NotEqual(t, Fingerprint("abc"), Fingerprint("abd"))
	assert.Len(t, Fingerprint("abc"), 64)
}
