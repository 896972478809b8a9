package handlers

import (
	"context"

	"github.com/camivel/cuentastrack/internal/domain/model"
	"github.com/camivel/cuentastrack/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*model.User, string, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, string, error)
	Identify(ctx context.Context, token string) (*model.Identity, error)
}

// AccountFacade encapsulates invoice pipeline operations exposed via HTTP.
type AccountFacade interface {
	Submit(ctx context.Context, actor model.Identity, in usecase.SubmitInput) (*model.Account, error)
	Approve(ctx context.Context, actor model.Identity, accountID int64) (*model.Account, error)
	Return(ctx context.Context, actor model.Identity, accountID int64, comment string, correction model.CorrectionType) (*model.Account, error)
	Accounts(ctx context.Context, actor model.Identity) ([]model.Account, error)
	Account(ctx context.Context, actor model.Identity, id int64) (*model.Account, error)
	Pending(ctx context.Context, actor model.Identity) ([]model.Account, error)
	Dashboard(ctx context.Context, actor model.Identity) (*usecase.DashboardStats, error)
}

// DirectoryFacade provides access to the user directory.
type DirectoryFacade interface {
	Users(ctx context.Context, actor model.Identity) ([]model.User, error)
}

// TrackerFacade aggregates the full set of operations used across handlers.
type TrackerFacade interface {
	AuthFacade
	AccountFacade
	DirectoryFacade
}
