// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bythepixel/propixel/internal/core"
)

const (
	UserIDKey  contextKey = "user_id"
	IsAdminKey contextKey = "is_admin"
	ClaimsKey  contextKey = "session_claims"
)

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

// AccessTokenClaims is the verified session attached to a request.
type AccessTokenClaims struct {
	UserID       int64
	SessionID    string
	IsAdmin      bool
	TokenVersion int
	TokenID      string
	ExpiresAt    time.Time
}

// Authenticator rejects requests without a valid session with 401 before
// any other handler runs. The token is read from the Authorization header
// first and from the session cookie second.
func Authenticator(
	verifier TokenVerifier,
	cookieName string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r, cookieName)
			if token == "" {
				core.Unauthorized(w)
				return
			}

			claims, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				slog.DebugContext(r.Context(), "session rejected",
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				core.Unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAuthenticated(r.Context()) {
			core.Unauthorized(w)
			return
		}

		if !IsAdmin(r.Context()) {
			core.Forbidden(w, "admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func ExtractToken(r *http.Request, cookieName string) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookieName == "" {
		return ""
	}

	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(cookie.Value)
}

func WithClaims(ctx context.Context, claims *AccessTokenClaims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, IsAdminKey, claims.IsAdmin)
	return context.WithValue(ctx, ClaimsKey, claims)
}

func GetUserID(ctx context.Context) int64 {
	if id, ok := ctx.Value(UserIDKey).(int64); ok {
		return id
	}
	return 0
}

func GetClaims(ctx context.Context) *AccessTokenClaims {
	if claims, ok := ctx.Value(ClaimsKey).(*AccessTokenClaims); ok {
		return claims
	}
	return nil
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUserID(ctx) != 0
}

func IsAdmin(ctx context.Context) bool {
	admin, ok := ctx.Value(IsAdminKey).(bool)
	return ok && admin
}
