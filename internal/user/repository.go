// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"fmt"

	"github.com/bythepixel/propixel/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id int64, params UpdateParams) (*User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	IncrementTokenVersion(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	UpsertAdmin(ctx context.Context, user *User) error
	Count(ctx context.Context) (int64, error)
}

const userColumns = `
	id, email, password_hash, first_name, last_name, is_admin,
	token_version, created_at, updated_at`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, is_admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, token_version, created_at, updated_at`

	err := r.db.GetContext(ctx, user, query,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.IsAdmin,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", core.TranslateError(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, fmt.Errorf("get user: %w", core.TranslateError(err))
	}

	return &user, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, fmt.Errorf("get user by email: %w", core.TranslateError(err))
	}

	return &user, nil
}

func (r *repository) List(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id DESC`

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", core.TranslateError(err))
	}

	return users, nil
}

func (r *repository) Update(
	ctx context.Context,
	id int64,
	params UpdateParams,
) (*User, error) {
	query := `
		UPDATE users
		SET first_name = $2,
		    last_name = $3,
		    is_admin = $4,
		    email = COALESCE($5, email),
		    password_hash = COALESCE($6, password_hash),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	var user User
	err := r.db.GetContext(ctx, &user, query,
		id,
		params.FirstName,
		params.LastName,
		params.IsAdmin,
		params.Email,
		params.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", core.TranslateError(err))
	}

	return &user, nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id int64,
	passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "update password", query, id, passwordHash)
}

func (r *repository) IncrementTokenVersion(ctx context.Context, id int64) error {
	query := `
		UPDATE users
		SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "increment token version", query, id)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.execOne(ctx, "delete user", `DELETE FROM users WHERE id = $1`, id)
}

// UpsertAdmin creates the account or, when the email already exists, resets
// its password and names and grants admin.
func (r *repository) UpsertAdmin(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, is_admin)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    is_admin = TRUE,
		    updated_at = NOW()
		RETURNING ` + userColumns

	err := r.db.GetContext(ctx, user, query,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
	)
	if err != nil {
		return fmt.Errorf("upsert admin: %w", core.TranslateError(err))
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *repository) execOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, core.TranslateError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}
