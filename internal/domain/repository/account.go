package repository

import (
	"context"

	"github.com/camivel/cuentastrack/internal/domain/model"
)

// AccountRepository describes persistence operations for invoice accounts.
type AccountRepository interface {
	// Create stores a new account, allocating its id and number. Ids are
	// never reused.
	Create(ctx context.Context, account *model.Account) (*model.Account, error)
	GetByID(ctx context.Context, id int64) (*model.Account, error)
	List(ctx context.Context) ([]model.Account, error)
	ListBySubmitter(ctx context.Context, submitterID int64) ([]model.Account, error)
	ListByState(ctx context.Context, state model.State) ([]model.Account, error)
	CountByState(ctx context.Context) (map[model.State]int, error)

	// Update loads the account fresh, applies mutate and persists the
	// result. The whole read-modify-write is serialized per account; when
	// mutate returns an error nothing is written.
	Update(ctx context.Context, id int64, mutate func(*model.Account) error) (*model.Account, error)
}
