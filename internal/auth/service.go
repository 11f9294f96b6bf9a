// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bythepixel/propixel/internal/core"
	"github.com/bythepixel/propixel/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSecretReplayed means a refresh secret that was already rotated
	// away came back. The session it belonged to is ended.
	ErrSecretReplayed = errors.New("session secret replayed")
)

// purgeGrace keeps ended and expired sessions around for a day so a
// replayed secret is still recognised shortly after the session closed.
const purgeGrace = 24 * time.Hour

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id int64) (*UserInfo, error)
	IncrementTokenVersion(ctx context.Context, userID int64) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

// Device is where a sign-in or refresh came from, shown on the sessions
// page.
type Device struct {
	UserAgent string
	IPAddress string
}

type Service struct {
	sessions    Repository
	signer      *Signer
	users       UserProvider
	revocations *Revocations
	sessionTTL  time.Duration
}

func NewService(
	sessions Repository,
	signer *Signer,
	users UserProvider,
	revocations *Revocations,
	sessionTTL time.Duration,
) *Service {
	return &Service{
		sessions:    sessions,
		signer:      signer,
		users:       users,
		revocations: revocations,
		sessionTTL:  sessionTTL,
	}
}

func (s *Service) Login(ctx context.Context, req LoginRequest, dev Device) (*AuthResponse, error) {
	var stored *string

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	switch {
	case err == nil:
		stored = &user.PasswordHash
	case !errors.Is(err, core.ErrNotFound):
		return nil, fmt.Errorf("login: %w", err)
	}

	check, err := core.CheckLoginPassword(req.Password, stored)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !check.Match {
		return nil, ErrInvalidCredentials
	}

	if check.Upgrade != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, check.Upgrade); err != nil {
			slog.WarnContext(ctx, "password hash upgrade failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	secret, err := core.NewSessionSecret()
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	sess := &Session{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		SecretHash: core.HashSecret(secret),
		UserAgent:  dev.UserAgent,
		IPAddress:  dev.IPAddress,
		ExpiresAt:  time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Open(ctx, sess); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	return s.issue(user, sess, secret)
}

// Refresh trades a session secret for a new access token and a new secret.
// Presenting a secret that was already rotated away ends the session, since
// only a copy held by someone else can still be using it.
func (s *Service) Refresh(ctx context.Context, secret string, dev Device) (*AuthResponse, error) {
	hash := core.HashSecret(secret)

	sess, err := s.sessions.BySecret(ctx, hash)
	if errors.Is(err, core.ErrNotFound) {
		return nil, s.checkReplay(ctx, hash)
	}
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	now := time.Now()
	switch {
	case sess.EndedAt != nil:
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
	case !sess.Active(now):
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
	}
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	next, err := core.NewSessionSecret()
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	rotated, err := s.sessions.Rotate(ctx, Rotation{
		SessionID:     sess.ID,
		PresentedHash: hash,
		NextHash:      core.HashSecret(next),
		ExpiresAt:     now.Add(s.sessionTTL),
		UserAgent:     dev.UserAgent,
		IPAddress:     dev.IPAddress,
	})
	if errors.Is(err, core.ErrNotFound) {
		// Lost a race with a concurrent refresh of the same secret.
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
	}
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	return s.issue(user, rotated, next)
}

func (s *Service) checkReplay(ctx context.Context, hash string) error {
	sess, err := s.sessions.ByRetiredSecret(ctx, hash)
	if errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
	}
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	slog.WarnContext(ctx, "rotated session secret replayed, ending session",
		"session_id", sess.ID,
		"user_id", sess.UserID,
		"generation", sess.Generation,
	)
	core.AddSpanEvent(ctx, "session.secret_replayed")

	if err := s.sessions.End(ctx, sess.ID); err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("end replayed session: %w", err)
	}

	return ErrSecretReplayed
}

// Logout ends the session the access token belongs to and blacklists the
// token itself for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, claims *middleware.AccessTokenClaims) error {
	if err := s.sessions.End(ctx, claims.SessionID); err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("logout: %w", err)
	}

	if err := s.revocations.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

// LogoutAll ends every session of the user and bumps the token version,
// which invalidates access tokens already handed out.
func (s *Service) LogoutAll(ctx context.Context, userID int64) error {
	ended, err := s.sessions.EndAllForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("logout all: %w", err)
	}

	if err := s.users.IncrementTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("logout all: %w", err)
	}

	slog.InfoContext(ctx, "all sessions ended", "user_id", userID, "count", ended)
	return nil
}

func (s *Service) ListSessions(
	ctx context.Context,
	userID int64,
	currentID string,
) ([]SessionInfo, error) {
	rows, err := s.sessions.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	out := make([]SessionInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, SessionInfo{
			ID:         row.ID,
			Current:    row.ID == currentID,
			UserAgent:  row.UserAgent,
			IPAddress:  row.IPAddress,
			Refreshes:  row.Generation,
			CreatedAt:  row.CreatedAt,
			LastSeenAt: row.LastSeenAt,
			ExpiresAt:  row.ExpiresAt,
		})
	}

	return out, nil
}

func (s *Service) RevokeSession(ctx context.Context, userID int64, sessionID string) error {
	if _, err := uuid.Parse(sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", core.ErrNotFound)
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if sess.UserID != userID {
		return fmt.Errorf("revoke session: %w", core.ErrForbidden)
	}

	if err := s.sessions.End(ctx, sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

// ChangePassword replaces the caller's password and signs them out
// everywhere, including the session that made the change.
func (s *Service) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	ok, err := core.VerifyPassword(current, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}

	hash, err := core.HashPassword(next)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	return s.LogoutAll(ctx, userID)
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// PruneSessions deletes sessions that ended or expired more than a day ago.
func (s *Service) PruneSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.Purge(ctx, time.Now().Add(-purgeGrace))
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	return n, nil
}

func (s *Service) issue(user *UserInfo, sess *Session, secret string) (*AuthResponse, error) {
	access, err := s.signer.Issue(Grant{
		UserID:       user.ID,
		SessionID:    sess.ID,
		IsAdmin:      user.IsAdmin,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: toUserResponse(user),
		Tokens: TokenResponse{
			SessionID:    sess.ID,
			AccessToken:  access.Value,
			RefreshToken: secret,
			TokenType:    "Bearer",
			ExpiresIn:    int(s.signer.TTL() / time.Second),
			ExpiresAt:    access.ExpiresAt,
		},
	}, nil
}
