package usecase

import (
	"context"
	"errors"

	domainErrors "github.com/camivel/cuentastrack/internal/domain/errors"
	"github.com/camivel/cuentastrack/internal/domain/model"
	"github.com/camivel/cuentastrack/internal/domain/repository"
)

// AssignmentResolver picks the user responsible for an account after a
// transition.
type AssignmentResolver struct {
	users repository.UserRepository
}

// NewAssignmentResolver constructs AssignmentResolver.
func NewAssignmentResolver(users repository.UserRepository) *AssignmentResolver {
	return &AssignmentResolver{users: users}
}

// NextResponsible resolves the owner for the target state. Returned
// accounts go back to the original submitter; every other state is owned by
// a fixed role, and the first active user of that role wins (load order,
// not round-robin). A nil user with nil error means nobody is eligible.
func (r *AssignmentResolver) NextResponsible(ctx context.Context, acc *model.Account, target model.State) (*model.User, error) {
	if target == model.StateReturned {
		submitter, err := r.users.GetByID(ctx, acc.SubmitterID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return submitter, nil
	}

	role, ok := model.ResponsibleRole(target)
	if !ok {
		return nil, nil
	}

	user, err := r.users.FirstActiveByRole(ctx, role, "")
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
