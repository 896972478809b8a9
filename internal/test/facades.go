package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/camivel/cuentastrack/internal/domain/model"
	"github.com/camivel/cuentastrack/internal/usecase"
)

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, usecase.RegisterInput) (*model.User, string, error)
	AuthenticateFn func(context.Context, string, string) (*model.User, string, error)
	IdentifyFn     func(context.Context, string) (*model.Identity, error)
}

// Register returns a user and token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, in usecase.RegisterInput) (*model.User, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, in)
	}
	return &model.User{ID: 1, Username: in.Username, Role: in.Role, Name: in.Name, Active: true}, "token", nil
}

// Authenticate returns a user and token for successful login scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, username, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, username, password)
	}
	return &model.User{ID: 1, Username: username, Role: model.RoleContractor, Name: "Stub", Active: true}, "token", nil
}

// Identify resolves a token into an identity.
func (s AuthFacadeStub) Identify(ctx context.Context, token string) (*model.Identity, error) {
	if s.IdentifyFn != nil {
		return s.IdentifyFn(ctx, token)
	}
	return &model.Identity{ID: 1, Role: model.RoleContractor, Name: "Stub"}, nil
}

// AccountFacadeStub provides controllable behaviour for account endpoints.
type AccountFacadeStub struct {
	SubmitFn    func(context.Context, model.Identity, usecase.SubmitInput) (*model.Account, error)
	ApproveFn   func(context.Context, model.Identity, int64) (*model.Account, error)
	ReturnFn    func(context.Context, model.Identity, int64, string, model.CorrectionType) (*model.Account, error)
	AccountsFn  func(context.Context, model.Identity) ([]model.Account, error)
	AccountFn   func(context.Context, model.Identity, int64) (*model.Account, error)
	PendingFn   func(context.Context, model.Identity) ([]model.Account, error)
	DashboardFn func(context.Context, model.Identity) (*usecase.DashboardStats, error)
}

func defaultAccount() *model.Account {
	return &model.Account{
		ID:           1,
		Number:       "CC-20240315-001",
		CurrentState: model.StateReviewEPB,
		Milestones:   map[string]time.Time{},
	}
}

// Submit delegates to the override or returns a default account.
func (s AccountFacadeStub) Submit(ctx context.Context, actor model.Identity, in usecase.SubmitInput) (*model.Account, error) {
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, actor, in)
	}
	return defaultAccount(), nil
}

// Approve delegates to the override or returns a default account.
func (s AccountFacadeStub) Approve(ctx context.Context, actor model.Identity, accountID int64) (*model.Account, error) {
	if s.ApproveFn != nil {
		return s.ApproveFn(ctx, actor, accountID)
	}
	return defaultAccount(), nil
}

// Return delegates to the override or returns a default account.
func (s AccountFacadeStub) Return(ctx context.Context, actor model.Identity, accountID int64, comment string, correction model.CorrectionType) (*model.Account, error) {
	if s.ReturnFn != nil {
		return s.ReturnFn(ctx, actor, accountID, comment, correction)
	}
	return defaultAccount(), nil
}

// Accounts returns predefined accounts for the caller.
func (s AccountFacadeStub) Accounts(ctx context.Context, actor model.Identity) ([]model.Account, error) {
	if s.AccountsFn != nil {
		return s.AccountsFn(ctx, actor)
	}
	return []model.Account{*defaultAccount()}, nil
}

// Account returns one predefined account.
func (s AccountFacadeStub) Account(ctx context.Context, actor model.Identity, id int64) (*model.Account, error) {
	if s.AccountFn != nil {
		return s.AccountFn(ctx, actor, id)
	}
	return defaultAccount(), nil
}

// Pending returns the predefined queue for the caller.
func (s AccountFacadeStub) Pending(ctx context.Context, actor model.Identity) ([]model.Account, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, actor)
	}
	return []model.Account{*defaultAccount()}, nil
}

// Dashboard returns predefined counts.
func (s AccountFacadeStub) Dashboard(ctx context.Context, actor model.Identity) (*usecase.DashboardStats, error) {
	if s.DashboardFn != nil {
		return s.DashboardFn(ctx, actor)
	}
	return &usecase.DashboardStats{Total: 1, ByState: map[model.State]int{model.StateReviewEPB: 1}}, nil
}

// DirectoryFacadeStub simulates the user directory.
type DirectoryFacadeStub struct {
	UsersFn func(context.Context, model.Identity) ([]model.User, error)
}

// Users returns the predefined directory.
func (s DirectoryFacadeStub) Users(ctx context.Context, actor model.Identity) ([]model.User, error) {
	if s.UsersFn != nil {
		return s.UsersFn(ctx, actor)
	}
	return []model.User{{ID: 1, Username: "stub", Role: model.RoleEPB, Name: "Stub", Active: true}}, nil
}

// TrackerFacadeStub aggregates facade dependencies for HTTP layer tests.
type TrackerFacadeStub struct {
	AuthFacadeStub
	AccountFacadeStub
	DirectoryFacadeStub
}

// MonitorFacadeStub mimics the monitor's view of the application.
type MonitorFacadeStub struct {
	Batches   [][]model.Account
	OverdueFn func(context.Context) ([]model.Account, error)

	mu        sync.Mutex
	callCount int32
}

// Overdue returns batches from the configured queue.
func (s *MonitorFacadeStub) Overdue(ctx context.Context) ([]model.Account, error) {
	if s.OverdueFn != nil {
		return s.OverdueFn(ctx)
	}
	call := atomic.AddInt32(&s.callCount, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	return nil, nil
}
