package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	domainErrors "github.com/camivel/cuentastrack/internal/domain/errors"
	"github.com/camivel/cuentastrack/internal/domain/model"
	"github.com/camivel/cuentastrack/internal/domain/repository"
	"github.com/camivel/cuentastrack/internal/perm"
)

// SubmitInput carries the invoice content provided by a contractor.
type SubmitInput struct {
	ContractNumber string
	ActNumber      string
	Amount         float64
	Description    string
}

// DashboardStats aggregates per-state account counts.
type DashboardStats struct {
	Total   int
	ByState map[model.State]int
}

// WorkflowOptions tunes the engine; zero values fall back to defaults.
type WorkflowOptions struct {
	AlertThresholdDays int
	Now                func() time.Time
}

// WorkflowUseCase drives state transitions, timestamps and history entries
// for invoice accounts. Authorization failures, missing accounts and
// disallowed-state actions are pure rejections: the account is never
// mutated.
type WorkflowUseCase struct {
	accounts  repository.AccountRepository
	users     repository.UserRepository
	resolver  *AssignmentResolver
	alertDays int
	now       func() time.Time
}

// NewWorkflowUseCase constructs WorkflowUseCase.
func NewWorkflowUseCase(accounts repository.AccountRepository, users repository.UserRepository, resolver *AssignmentResolver, opts WorkflowOptions) *WorkflowUseCase {
	alertDays := opts.AlertThresholdDays
	if alertDays <= 0 {
		alertDays = DefaultAlertThresholdDays
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &WorkflowUseCase{
		accounts:  accounts,
		users:     users,
		resolver:  resolver,
		alertDays: alertDays,
		now:       now,
	}
}

// Submit registers a new invoice. The account lands directly in review_epb
// without resting in submitted, matching the established pipeline
// behavior, and is assigned to the first active EPB reviewer.
func (u *WorkflowUseCase) Submit(ctx context.Context, actor model.Identity, in SubmitInput) (*model.Account, error) {
	if !perm.Allowed(actor.Role, perm.Submit) {
		return nil, fmt.Errorf("%w: role %s cannot submit", domainErrors.ErrForbidden, actor.Role)
	}

	in.ContractNumber = strings.TrimSpace(in.ContractNumber)
	in.ActNumber = strings.TrimSpace(in.ActNumber)
	in.Description = strings.TrimSpace(in.Description)
	if in.ContractNumber == "" || in.ActNumber == "" || in.Description == "" {
		return nil, fmt.Errorf("%w: contract, act and description are required", domainErrors.ErrValidation)
	}
	if in.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must be non-negative", domainErrors.ErrValidation)
	}

	reviewer, err := u.resolver.NextResponsible(ctx, &model.Account{}, model.StateReviewEPB)
	if err != nil {
		return nil, err
	}
	if reviewer == nil {
		return nil, fmt.Errorf("%w: no active EPB reviewer", domainErrors.ErrNoEligibleReviewer)
	}

	now := u.now()
	startName, _ := model.StartMilestone(model.StateReviewEPB)
	assignedName, _ := model.AssignedMilestone(model.StateReviewEPB)

	acc := &model.Account{
		SubmitterID:    actor.ID,
		SubmitterName:  actor.Name,
		ContractNumber: in.ContractNumber,
		ActNumber:      in.ActNumber,
		Amount:         in.Amount,
		Description:    in.Description,
		CurrentState:   model.StateReviewEPB,
		OwnerID:        reviewer.ID,
		OwnerName:      reviewer.Name,
		Milestones: map[string]time.Time{
			model.MilestoneSubmission: now,
			assignedName:              now,
			startName:                 now,
		},
		History: []model.Movement{
			{
				State:      model.StateSubmitted,
				ActorID:    actor.ID,
				ActorName:  actor.Name,
				RecordedAt: now,
				Action:     model.ActionSubmission,
				Comment:    "Invoice submitted",
			},
			{
				State:        model.StateReviewEPB,
				ActorName:    "system",
				RecordedAt:   now,
				Action:       model.ActionAssignment,
				Comment:      fmt.Sprintf("Automatically assigned to %s", reviewer.Name),
				AssignedID:   reviewer.ID,
				AssignedName: reviewer.Name,
			},
		},
	}

	created, err := u.accounts.Create(ctx, acc)
	if err != nil {
		return nil, err
	}
	created.Alerts = ComputeAlerts(created, now, u.alertDays)
	return created, nil
}

// Approve moves the account along its forward edge and hands it to the
// next responsible user. Approval out of review_treasury is the payment:
// the terminal transition only treasury may perform.
func (u *WorkflowUseCase) Approve(ctx context.Context, actor model.Identity, accountID int64) (*model.Account, error) {
	updated, err := u.accounts.Update(ctx, accountID, func(acc *model.Account) error {
		if !perm.CanActIn(actor.Role, acc.CurrentState) || !perm.Allowed(actor.Role, perm.Approve) {
			return fmt.Errorf("%w: role %s cannot act in state %s", domainErrors.ErrForbidden, actor.Role, acc.CurrentState)
		}

		next, ok := acc.CurrentState.Next()
		if !ok {
			return fmt.Errorf("%w: state %s has no forward edge", domainErrors.ErrForbidden, acc.CurrentState)
		}

		now := u.now()
		if next == model.StatePaid {
			if actor.Role != model.RoleTreasury || !perm.Allowed(actor.Role, perm.Pay) {
				return fmt.Errorf("%w: only treasury may pay", domainErrors.ErrForbidden)
			}
			acc.CurrentState = next
			acc.OwnerID = actor.ID
			acc.OwnerName = actor.Name
			acc.Milestones[model.MilestonePayment] = now
			acc.History = append(acc.History, model.Movement{
				State:        next,
				ActorID:      actor.ID,
				ActorName:    actor.Name,
				RecordedAt:   now,
				Action:       model.ActionPayment,
				Comment:      "Invoice paid",
				AssignedID:   actor.ID,
				AssignedName: actor.Name,
			})
			return nil
		}

		owner, err := u.resolver.NextResponsible(ctx, acc, next)
		if err != nil {
			return err
		}
		if owner == nil {
			return fmt.Errorf("%w: no active user for state %s", domainErrors.ErrNoEligibleReviewer, next)
		}

		startName, _ := model.StartMilestone(next)
		assignedName, _ := model.AssignedMilestone(next)
		acc.CurrentState = next
		acc.OwnerID = owner.ID
		acc.OwnerName = owner.Name
		acc.Milestones[startName] = now
		acc.Milestones[assignedName] = now
		acc.History = append(acc.History, model.Movement{
			State:        next,
			ActorID:      actor.ID,
			ActorName:    actor.Name,
			RecordedAt:   now,
			Action:       model.ActionApproval,
			Comment:      fmt.Sprintf("Approved by %s, advanced to %s", actor.Role, next),
			AssignedID:   owner.ID,
			AssignedName: owner.Name,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	updated.Alerts = ComputeAlerts(updated, u.now(), u.alertDays)
	return updated, nil
}

// Return sends the account back to its submitter for correction. A missing
// submitter clears the owner fields but never blocks the return; only
// forward approvals require a resolved next owner.
func (u *WorkflowUseCase) Return(ctx context.Context, actor model.Identity, accountID int64, comment string, correction model.CorrectionType) (*model.Account, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, fmt.Errorf("%w: a return comment is required", domainErrors.ErrValidation)
	}
	if !correction.IsValid() {
		return nil, fmt.Errorf("%w: unknown correction type %q", domainErrors.ErrValidation, correction)
	}

	updated, err := u.accounts.Update(ctx, accountID, func(acc *model.Account) error {
		if !perm.CanActIn(actor.Role, acc.CurrentState) || !perm.Allowed(actor.Role, perm.Return) {
			return fmt.Errorf("%w: role %s cannot act in state %s", domainErrors.ErrForbidden, actor.Role, acc.CurrentState)
		}
		if acc.CurrentState.IsTerminal() {
			return fmt.Errorf("%w: %s accounts cannot be returned", domainErrors.ErrForbidden, acc.CurrentState)
		}

		owner, err := u.resolver.NextResponsible(ctx, acc, model.StateReturned)
		if err != nil {
			return err
		}

		now := u.now()
		acc.CurrentState = model.StateReturned
		movement := model.Movement{
			State:          model.StateReturned,
			ActorID:        actor.ID,
			ActorName:      actor.Name,
			RecordedAt:     now,
			Action:         model.ActionReturn,
			Comment:        comment,
			CorrectionType: correction,
		}
		if owner != nil {
			acc.OwnerID = owner.ID
			acc.OwnerName = owner.Name
			movement.AssignedID = owner.ID
			movement.AssignedName = owner.Name
		} else {
			acc.OwnerID = 0
			acc.OwnerName = ""
		}
		acc.History = append(acc.History, movement)
		return nil
	})
	if err != nil {
		return nil, err
	}
	updated.Alerts = ComputeAlerts(updated, u.now(), u.alertDays)
	return updated, nil
}

// AccountsFor lists the accounts visible to the caller: reviewers see all,
// contractors only their own. Alerts are recomputed for every account.
func (u *WorkflowUseCase) AccountsFor(ctx context.Context, actor model.Identity) ([]model.Account, error) {
	var (
		accounts []model.Account
		err      error
	)
	switch {
	case perm.Allowed(actor.Role, perm.ViewAll):
		accounts, err = u.accounts.List(ctx)
	case perm.Allowed(actor.Role, perm.ViewOwn):
		accounts, err = u.accounts.ListBySubmitter(ctx, actor.ID)
	default:
		return nil, fmt.Errorf("%w: role %s cannot list accounts", domainErrors.ErrForbidden, actor.Role)
	}
	if err != nil {
		return nil, err
	}

	now := u.now()
	for i := range accounts {
		accounts[i].Alerts = ComputeAlerts(&accounts[i], now, u.alertDays)
	}
	return accounts, nil
}

// AccountByID fetches one account; contractors may only fetch their own.
func (u *WorkflowUseCase) AccountByID(ctx context.Context, actor model.Identity, id int64) (*model.Account, error) {
	acc, err := u.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !perm.Allowed(actor.Role, perm.ViewAll) && acc.SubmitterID != actor.ID {
		return nil, fmt.Errorf("%w: not the submitter of account %d", domainErrors.ErrForbidden, id)
	}
	acc.Alerts = ComputeAlerts(acc, u.now(), u.alertDays)
	return acc, nil
}

// PendingFor lists the accounts awaiting the caller's action: reviewers get
// their stage's queue, contractors their returned accounts.
func (u *WorkflowUseCase) PendingFor(ctx context.Context, actor model.Identity) ([]model.Account, error) {
	var (
		accounts []model.Account
		err      error
	)
	if stage, ok := model.StageOwnedBy(actor.Role); ok {
		accounts, err = u.accounts.ListByState(ctx, stage)
	} else if actor.Role == model.RoleContractor {
		var own []model.Account
		own, err = u.accounts.ListBySubmitter(ctx, actor.ID)
		for _, acc := range own {
			if acc.CurrentState == model.StateReturned {
				accounts = append(accounts, acc)
			}
		}
	} else {
		return nil, fmt.Errorf("%w: role %s has no pending queue", domainErrors.ErrForbidden, actor.Role)
	}
	if err != nil {
		return nil, err
	}

	now := u.now()
	for i := range accounts {
		accounts[i].Alerts = ComputeAlerts(&accounts[i], now, u.alertDays)
	}
	return accounts, nil
}

// DashboardFor aggregates per-state counts over the accounts visible to
// the caller.
func (u *WorkflowUseCase) DashboardFor(ctx context.Context, actor model.Identity) (*DashboardStats, error) {
	if perm.Allowed(actor.Role, perm.ViewAll) {
		counts, err := u.accounts.CountByState(ctx)
		if err != nil {
			return nil, err
		}
		stats := &DashboardStats{ByState: counts}
		for _, n := range counts {
			stats.Total += n
		}
		return stats, nil
	}

	if !perm.Allowed(actor.Role, perm.ViewOwn) {
		return nil, fmt.Errorf("%w: role %s has no dashboard", domainErrors.ErrForbidden, actor.Role)
	}
	own, err := u.accounts.ListBySubmitter(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	stats := &DashboardStats{Total: len(own), ByState: make(map[model.State]int)}
	for _, acc := range own {
		stats.ByState[acc.CurrentState]++
	}
	return stats, nil
}

// Overdue returns all in-review accounts whose current stage breached the
// alert threshold, for the background monitor.
func (u *WorkflowUseCase) Overdue(ctx context.Context) ([]model.Account, error) {
	now := u.now()
	var overdue []model.Account
	for _, stage := range model.ReviewStates {
		accounts, err := u.accounts.ListByState(ctx, stage)
		if err != nil {
			return nil, err
		}
		for _, acc := range accounts {
			alerts := ComputeAlerts(&acc, now, u.alertDays)
			if len(alerts) == 0 {
				continue
			}
			acc.Alerts = alerts
			overdue = append(overdue, acc)
		}
	}
	return overdue, nil
}
