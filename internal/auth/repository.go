// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/bythepixel/propixel/internal/core"
)

// Repository persists console sessions. Secrets are only ever stored as
// hashes; a rotated secret moves into retired_hashes so a replayed copy can
// be recognised later.
type Repository interface {
	Open(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	BySecret(ctx context.Context, secretHash string) (*Session, error)
	ByRetiredSecret(ctx context.Context, secretHash string) (*Session, error)
	Rotate(ctx context.Context, rot Rotation) (*Session, error)
	End(ctx context.Context, id string) error
	EndAllForUser(ctx context.Context, userID int64) (int64, error)
	ListActive(ctx context.Context, userID int64) ([]Session, error)
	Principal(ctx context.Context, sessionID string) (*Principal, error)
	Purge(ctx context.Context, before time.Time) (int64, error)
}

// Rotation swaps the current secret of a live session. It only applies
// while PresentedHash is still the current secret, so two concurrent
// refreshes with the same secret cannot both win.
type Rotation struct {
	SessionID     string
	PresentedHash string
	NextHash      string
	ExpiresAt     time.Time
	UserAgent     string
	IPAddress     string
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const sessionColumns = `
	id, user_id, secret_hash, generation, user_agent, ip_address,
	created_at, last_seen_at, expires_at, ended_at`

func (r *repository) Open(ctx context.Context, s *Session) error {
	query := `
		INSERT INTO sessions (id, user_id, secret_hash, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + sessionColumns

	err := r.db.GetContext(ctx, s, query,
		s.ID, s.UserID, s.SecretHash, s.UserAgent, s.IPAddress, s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("open session: %w", core.TranslateError(err))
	}

	return nil
}

func (r *repository) Get(ctx context.Context, id string) (*Session, error) {
	return r.one(ctx, "get session", `WHERE id = $1`, id)
}

func (r *repository) BySecret(ctx context.Context, secretHash string) (*Session, error) {
	return r.one(ctx, "find session by secret", `WHERE secret_hash = $1`, secretHash)
}

func (r *repository) ByRetiredSecret(
	ctx context.Context,
	secretHash string,
) (*Session, error) {
	return r.one(ctx, "find session by retired secret",
		`WHERE retired_hashes @> ARRAY[$1]::text[]`, secretHash)
}

func (r *repository) one(
	ctx context.Context,
	op, where string,
	arg any,
) (*Session, error) {
	var s Session
	query := `SELECT ` + sessionColumns + ` FROM sessions ` + where
	if err := r.db.GetContext(ctx, &s, query, arg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, core.TranslateError(err))
	}
	return &s, nil
}

func (r *repository) Rotate(ctx context.Context, rot Rotation) (*Session, error) {
	query := `
		UPDATE sessions
		SET retired_hashes = array_append(retired_hashes, secret_hash),
			secret_hash    = $3,
			generation     = generation + 1,
			expires_at     = $4,
			user_agent     = $5,
			ip_address     = $6,
			last_seen_at   = NOW()
		WHERE id = $1 AND secret_hash = $2 AND ended_at IS NULL
		RETURNING ` + sessionColumns

	var s Session
	err := r.db.GetContext(ctx, &s, query,
		rot.SessionID,
		rot.PresentedHash,
		rot.NextHash,
		rot.ExpiresAt,
		rot.UserAgent,
		rot.IPAddress,
	)
	if err != nil {
		return nil, fmt.Errorf("rotate session: %w", core.TranslateError(err))
	}

	return &s, nil
}

func (r *repository) End(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET ended_at = NOW() WHERE id = $1 AND ended_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("end session: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) EndAllForUser(ctx context.Context, userID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET ended_at = NOW() WHERE user_id = $1 AND ended_at IS NULL`, userID)
	if err != nil {
		return 0, fmt.Errorf("end user sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("end user sessions: %w", err)
	}

	return rows, nil
}

func (r *repository) ListActive(ctx context.Context, userID int64) ([]Session, error) {
	query := `SELECT ` + sessionColumns + `
		FROM sessions
		WHERE user_id = $1 AND ended_at IS NULL AND expires_at > NOW()
		ORDER BY last_seen_at DESC`

	sessions := []Session{}
	if err := r.db.SelectContext(ctx, &sessions, query, userID); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return sessions, nil
}

// Principal resolves the sid claim of an access token to the current state
// of its session and account in one round trip.
func (r *repository) Principal(ctx context.Context, sessionID string) (*Principal, error) {
	query := `
		SELECT s.user_id, u.is_admin, u.token_version, s.ended_at, s.expires_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1`

	var p Principal
	if err := r.db.GetContext(ctx, &p, query, sessionID); err != nil {
		return nil, fmt.Errorf("load principal: %w", core.TranslateError(err))
	}

	return &p, nil
}

// Purge deletes sessions that ended or expired before the cutoff.
func (r *repository) Purge(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < $1 OR ended_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}

	return rows, nil
}
