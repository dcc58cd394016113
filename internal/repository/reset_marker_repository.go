package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResetMarkerRepo records redeemed password-reset tokens in Redis so each
// token can be used once within its lifetime. With no Redis client the
// marker is skipped and reset tokens stay redeemable until they expire.
type ResetMarkerRepo struct{ Client *redis.Client }

func NewResetMarkerRepo(client *redis.Client) *ResetMarkerRepo {
	return &ResetMarkerRepo{Client: client}
}

// MarkUsed records the token fingerprint as redeemed. It returns false when
// the fingerprint was already present, meaning the token was spent before.
// The key expires with the token itself so Redis does not accumulate markers.
func (r *ResetMarkerRepo) MarkUsed(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error) {
	if r.Client == nil {
		return true, nil
	}
	return r.Client.SetNX(ctx, "pwdreset:used:"+fingerprint, 1, ttl).Result()
}

// Unmark drops a redemption marker so the token becomes redeemable again.
// Used when the password write fails after the marker was already burned.
func (r *ResetMarkerRepo) Unmark(ctx context.Context, fingerprint string) error {
	if r.Client == nil {
		return nil
	}
	return r.Client.Del(ctx, "pwdreset:used:"+fingerprint).Err()
}
