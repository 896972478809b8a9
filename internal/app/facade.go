package app

import (
	"context"

	"github.com/camivel/cuentastrack/internal/domain/model"
	"github.com/camivel/cuentastrack/internal/usecase"
)

// TrackerFacade aggregates the use cases behind one application surface
// consumed by the HTTP layer and the background monitor.
type TrackerFacade struct {
	auth      *usecase.AuthUseCase
	workflow  *usecase.WorkflowUseCase
	directory *usecase.DirectoryUseCase
}

// NewTrackerFacade constructs the facade.
func NewTrackerFacade(auth *usecase.AuthUseCase, workflow *usecase.WorkflowUseCase, directory *usecase.DirectoryUseCase) *TrackerFacade {
	return &TrackerFacade{auth: auth, workflow: workflow, directory: directory}
}

func (f *TrackerFacade) Register(ctx context.Context, in usecase.RegisterInput) (*model.User, string, error) {
	return f.auth.Register(ctx, in)
}

func (f *TrackerFacade) Authenticate(ctx context.Context, username, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, username, password)
}

func (f *TrackerFacade) Identify(ctx context.Context, token string) (*model.Identity, error) {
	return f.auth.Identify(ctx, token)
}

func (f *TrackerFacade) Submit(ctx context.Context, actor model.Identity, in usecase.SubmitInput) (*model.Account, error) {
	return f.workflow.Submit(ctx, actor, in)
}

func (f *TrackerFacade) Approve(ctx context.Context, actor model.Identity, accountID int64) (*model.Account, error) {
	return f.workflow.Approve(ctx, actor, accountID)
}

func (f *TrackerFacade) Return(ctx context.Context, actor model.Identity, accountID int64, comment string, correction model.CorrectionType) (*model.Account, error) {
	return f.workflow.Return(ctx, actor, accountID, comment, correction)
}

func (f *TrackerFacade) Accounts(ctx context.Context, actor model.Identity) ([]model.Account, error) {
	return f.workflow.AccountsFor(ctx, actor)
}

func (f *TrackerFacade) Account(ctx context.Context, actor model.Identity, id int64) (*model.Account, error) {
	return f.workflow.AccountByID(ctx, actor, id)
}

func (f *TrackerFacade) Pending(ctx context.Context, actor model.Identity) ([]model.Account, error) {
	return f.workflow.PendingFor(ctx, actor)
}

func (f *TrackerFacade) Dashboard(ctx context.Context, actor model.Identity) (*usecase.DashboardStats, error) {
	return f.workflow.DashboardFor(ctx, actor)
}

func (f *TrackerFacade) Users(ctx context.Context, actor model.Identity) ([]model.User, error) {
	return f.directory.List(ctx, actor)
}

func (f *TrackerFacade) Overdue(ctx context.Context) ([]model.Account, error) {
	return f.workflow.Overdue(ctx)
}

func (f *TrackerFacade) SeedUsers(ctx context.Context) error {
	return f.directory.Seed(ctx)
}
