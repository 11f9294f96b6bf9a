// AngelaMos | 2026
// revocation.go

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revocationPrefix = "blacklist:"

// Revocations is the Redis backed list of access token ids that were logged
// out before they expired. Entries expire with the token they cover.
type Revocations struct {
	redis *redis.Client
}

func NewRevocations(rdb *redis.Client) *Revocations {
	return &Revocations{redis: rdb}
}

func (r *Revocations) Revoke(
	ctx context.Context,
	jti string,
	expiresAt time.Time,
) error {
	if jti == "" {
		return nil
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := r.redis.Set(ctx, revocationPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	return nil
}

func (r *Revocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}

	exists, err := r.redis.Exists(ctx, revocationPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}

	return exists > 0, nil
}
