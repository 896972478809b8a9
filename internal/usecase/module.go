package usecase

import (
	"go.uber.org/fx"

	"github.com/camivel/cuentastrack/internal/config"
	"github.com/camivel/cuentastrack/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAssignmentResolver,
	NewAuthUseCase,
	NewDirectoryUseCase,
	newWorkflowUseCase,
)

type workflowParams struct {
	fx.In

	Accounts repository.AccountRepository
	Users    repository.UserRepository
	Resolver *AssignmentResolver
	Config   *config.Config
}

func newWorkflowUseCase(p workflowParams) *WorkflowUseCase {
	return NewWorkflowUseCase(p.Accounts, p.Users, p.Resolver, WorkflowOptions{
		AlertThresholdDays: p.Config.AlertThresholdDays,
	})
}
