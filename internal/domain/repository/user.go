package repository

import (
	"context"

	"github.com/camivel/cuentastrack/internal/domain/model"
)

// UserRepository describes persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)

	// FirstActiveByRole returns the first active user of the role in load
	// order, optionally narrowed to a department. Selection is first-match,
	// not load-balanced.
	FirstActiveByRole(ctx context.Context, role model.Role, department string) (*model.User, error)
}
