package dto

import (
	"time"

	"github.com/camivel/cuentastrack/internal/domain/model"
)

// RegisterRequest describes the new-user payload.
type RegisterRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

// AuthRequest describes username/password payload.
type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse is the public projection of a user; the credential never
// leaves the server.
type UserResponse struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	Name       string    `json:"name"`
	Department string    `json:"department,omitempty"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewUserResponse maps a domain user to its response form.
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Role:       string(u.Role),
		Name:       u.Name,
		Department: u.Department,
		Active:     u.Active,
		CreatedAt:  u.CreatedAt,
	}
}
