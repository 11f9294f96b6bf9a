// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/bythepixel/propixel/internal/auth"
	"github.com/bythepixel/propixel/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) CreateUser(
	ctx context.Context,
	req CreateUserRequest,
) (*User, error) {
	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	email := req.Email
	user := &User{
		Email:        &email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsAdmin:      bool(req.IsAdmin),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateUser replaces names and the admin flag. A non-empty email replaces
// the stored one and a non-empty password is hashed and replaces the stored
// hash; empty values leave both untouched.
func (s *Service) UpdateUser(
	ctx context.Context,
	id int64,
	req UpdateUserRequest,
) (*User, error) {
	params := UpdateParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsAdmin:   bool(req.IsAdmin),
	}

	if req.Email != "" {
		email := req.Email
		params.Email = &email
	}

	if req.Password != "" {
		hash, err := core.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		params.PasswordHash = &hash
	}

	u, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}

	// A reset password signs the user out of every console session.
	if params.PasswordHash != nil {
		if err := s.repo.IncrementTokenVersion(ctx, id); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		u.TokenVersion++
	}

	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, callerID, id int64) error {
	if callerID == id {
		return core.Invalid(msgDeleteSelf)
	}

	return s.repo.Delete(ctx, id)
}

// SeedAdmin creates or resets the bootstrap administrator.
func (s *Service) SeedAdmin(
	ctx context.Context,
	email, password, firstName, lastName string,
) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, core.Invalid("email and password are required")
	}

	hash, err := core.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		Email:        &email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		IsAdmin:      true,
	}

	if err := s.repo.UpsertAdmin(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) CountUsers(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *Service) GetByID(
	ctx context.Context,
	id int64,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) IncrementTokenVersion(ctx context.Context, userID int64) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID int64,
	passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.EmailAddress(),
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		TokenVersion: u.TokenVersion,
		CreatedAt:    u.CreatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
