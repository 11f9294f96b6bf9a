// AngelaMos | 2026
// dto.go

package user

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

const (
	msgCreateRequired = "Email, password, first name, and last name are required"
	msgNamesRequired  = "First name and last name are required"
	msgInvalidID      = "Invalid user id"
	msgDeleteSelf     = "Cannot delete your own account"
)

type CreateUserRequest struct {
	Email     string `json:"email"     validate:"required"`
	Password  string `json:"password"  validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	IsAdmin   Flag   `json:"isAdmin"`
}

func (r *CreateUserRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

type UpdateUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	IsAdmin   Flag   `json:"isAdmin"`
}

func (r *UpdateUserRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

// Flag decodes the admin checkbox the way the console posts it: a JSON
// boolean, a number, or a form string such as "true", "on" or "1". Anything
// unrecognised is false.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = n != 0
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "on", "1", "yes":
			*f = true
		default:
			*f = false
		}
		return nil
	}

	*f = false
	return nil
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Email     *string   `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
