// AngelaMos | 2026
// verifier.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bythepixel/propixel/internal/core"
	"github.com/bythepixel/propixel/internal/middleware"
)

// SessionVerifier is the middleware.TokenVerifier used in production. After
// the signature checks it resolves the token's session: ended sessions,
// blacklisted tokens and tokens minted before the account's last
// logout-all are rejected. A Redis outage skips only the blacklist check.
type SessionVerifier struct {
	signer      *Signer
	revocations *Revocations
	sessions    Repository
}

func NewSessionVerifier(
	signer *Signer,
	revocations *Revocations,
	sessions Repository,
) *SessionVerifier {
	return &SessionVerifier{
		signer:      signer,
		revocations: revocations,
		sessions:    sessions,
	}
}

func (v *SessionVerifier) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := v.signer.VerifyAccessToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return nil, fmt.Errorf("verify session: %w", core.ErrTokenInvalid)
	}

	revoked, err := v.revocations.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		slog.WarnContext(ctx, "token blacklist unreachable, skipping check",
			"session_id", claims.SessionID,
			"error", err,
		)
	}
	if revoked {
		return nil, fmt.Errorf("verify session: %w", core.ErrTokenRevoked)
	}

	p, err := v.sessions.Principal(ctx, claims.SessionID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("verify session: %w", core.ErrTokenRevoked)
	}
	if err != nil {
		return nil, fmt.Errorf("verify session: %w", err)
	}

	switch {
	case p.UserID != claims.UserID:
		return nil, fmt.Errorf("verify session: %w", core.ErrTokenInvalid)
	case p.EndedAt != nil, claims.TokenVersion < p.TokenVersion:
		return nil, fmt.Errorf("verify session: %w", core.ErrTokenRevoked)
	case !time.Now().Before(p.ExpiresAt):
		return nil, fmt.Errorf("verify session: %w", core.ErrTokenExpired)
	}

	claims.IsAdmin = p.IsAdmin
	return claims, nil
}
