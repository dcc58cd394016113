// Package token signs and verifies the compact credentials used by the auth
// flows. Access, refresh and reset tokens share the same shape (subject +
// expiry, HS256) but each purpose has its own secret and TTL.
package token

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purpose selects which secret and TTL a token is issued/verified with.
type Purpose string

const (
	PurposeAccess  Purpose = "access"
	PurposeRefresh Purpose = "refresh"
	PurposeReset   Purpose = "reset"
)

var (
	// ErrInvalidSignature covers tampered, malformed and wrong-purpose tokens.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrExpired is returned when the embedded expiry has passed.
	ErrExpired = errors.New("token expired")
	// ErrUnknownPurpose is returned for a purpose the codec was not configured with.
	ErrUnknownPurpose = errors.New("unknown token purpose")
)

type purposeConfig struct {
	secret []byte
	ttl    time.Duration
}

// Codec issues and verifies purpose-scoped tokens.
type Codec struct {
	purposes map[Purpose]purposeConfig
}

// NewCodec builds a codec with independent secrets and TTLs per purpose.
// Secrets must be validated by the caller; the codec does not provide defaults.
func NewCodec(accessSecret, refreshSecret, resetSecret string, accessTTL, refreshTTL, resetTTL time.Duration) *Codec {
	return &Codec{purposes: map[Purpose]purposeConfig{
		PurposeAccess:  {secret: []byte(accessSecret), ttl: accessTTL},
		PurposeRefresh: {secret: []byte(refreshSecret), ttl: refreshTTL},
		PurposeReset:   {secret: []byte(resetSecret), ttl: resetTTL},
	}}
}

// TTL returns the configured lifetime for a purpose.
func (c *Codec) TTL(p Purpose) time.Duration {
	return c.purposes[p].ttl
}

// Issue signs a token binding the subject and now+TTL for the given purpose.
// It returns the serialized token and its absolute expiry.
func (c *Codec) Issue(subject uint64, p Purpose) (string, time.Time, error) {
	pc, ok := c.purposes[p]
	if !ok {
		return "", time.Time{}, ErrUnknownPurpose
	}
	now := time.Now().UTC()
	exp := now.Add(pc.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(subject, 10),
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(now),
	})
	signed, err := t.SignedString(pc.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks signature and expiry against the purpose's secret and returns
// the embedded subject. Expiry failures map to ErrExpired, everything else to
// ErrInvalidSignature.
func (c *Codec) Verify(value string, p Purpose) (uint64, error) {
	pc, ok := c.purposes[p]
	if !ok {
		return 0, ErrUnknownPurpose
	}
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return pc.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpired
		}
		return 0, ErrInvalidSignature
	}
	if !tok.Valid {
		return 0, ErrInvalidSignature
	}
	subject, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidSignature
	}
	return subject, nil
}

// Fingerprint returns the SHA-256 hex digest of a token value. Session rows
// and single-use markers store the fingerprint, never the raw token.
func Fingerprint(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
