package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/camivel/cuentastrack/internal/domain/errors"
	"github.com/camivel/cuentastrack/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	ByID map[int64]*model.User
	Next int64
	Err  error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub(users ...model.User) *UserRepositoryStub {
	s := &UserRepositoryStub{ByID: make(map[int64]*model.User), Next: 1}
	for i := range users {
		u := users[i]
		if u.ID == 0 {
			u.ID = s.Next
		}
		if u.ID >= s.Next {
			s.Next = u.ID + 1
		}
		s.ByID[u.ID] = &u
	}
	return s
}

// Create registers user unless the username is taken.
func (s *UserRepositoryStub) Create(_ context.Context, user *model.User) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, existing := range s.ByID {
		if existing.Username == user.Username {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	created := *user
	created.ID = s.Next
	s.Next++
	s.ByID[created.ID] = &created
	return &created, nil
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(_ context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByUsername fetches user by username or returns not found.
func (s *UserRepositoryStub) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, user := range s.ByID {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// List returns all users ordered by identifier.
func (s *UserRepositoryStub) List(_ context.Context) ([]model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]model.User, 0, len(s.ByID))
	for _, user := range s.ByID {
		result = append(result, *user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// FirstActiveByRole returns the lowest-id active user of the role.
func (s *UserRepositoryStub) FirstActiveByRole(ctx context.Context, role model.Role, department string) (*model.User, error) {
	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Role != role || !users[i].Active {
			continue
		}
		if department != "" && users[i].Department != department {
			continue
		}
		return &users[i], nil
	}
	return nil, domainErrors.ErrNotFound
}

// AccountRepositoryStub keeps accounts in-memory and mirrors the Update
// contract: a mutate error leaves the stored account untouched.
type AccountRepositoryStub struct {
	ByID map[int64]*model.Account
	Next int64
	Err  error

	mu sync.Mutex
}

// NewAccountRepositoryStub constructs stub repository with initialized maps.
func NewAccountRepositoryStub() *AccountRepositoryStub {
	return &AccountRepositoryStub{ByID: make(map[int64]*model.Account), Next: 1}
}

// Create assigns an id and number and stores a deep copy.
func (s *AccountRepositoryStub) Create(_ context.Context, account *model.Account) (*model.Account, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	created := account.Clone()
	created.ID = s.Next
	s.Next++

	submitted, ok := created.Milestones[model.MilestoneSubmission]
	if !ok {
		submitted = time.Now()
	}
	created.Number = model.AccountNumber(submitted, created.ID)
	created.CreatedAt = submitted
	created.UpdatedAt = submitted

	s.ByID[created.ID] = created.Clone()
	return created, nil
}

// GetByID fetches a copy of the account or returns not found.
func (s *AccountRepositoryStub) GetByID(_ context.Context, id int64) (*model.Account, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.ByID[id]; ok {
		return acc.Clone(), nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *AccountRepositoryStub) list(filter func(*model.Account) bool) []model.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.ByID))
	for id := range s.ByID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var result []model.Account
	for _, id := range ids {
		if filter != nil && !filter(s.ByID[id]) {
			continue
		}
		result = append(result, *s.ByID[id].Clone())
	}
	return result
}

// List returns all accounts ordered by identifier.
func (s *AccountRepositoryStub) List(_ context.Context) ([]model.Account, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.list(nil), nil
}

// ListBySubmitter returns the accounts submitted by the user.
func (s *AccountRepositoryStub) ListBySubmitter(_ context.Context, submitterID int64) ([]model.Account, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.list(func(a *model.Account) bool { return a.SubmitterID == submitterID }), nil
}

// ListByState returns the accounts currently in the state.
func (s *AccountRepositoryStub) ListByState(_ context.Context, state model.State) ([]model.Account, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.list(func(a *model.Account) bool { return a.CurrentState == state }), nil
}

// CountByState aggregates per-state totals.
func (s *AccountRepositoryStub) CountByState(_ context.Context) (map[model.State]int, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[model.State]int)
	for _, acc := range s.ByID {
		counts[acc.CurrentState]++
	}
	return counts, nil
}

// Update applies mutate to a copy and commits only on success.
func (s *AccountRepositoryStub) Update(_ context.Context, id int64, mutate func(*model.Account) error) (*model.Account, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.ByID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}

	working := stored.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}
	working.UpdatedAt = time.Now()

	s.ByID[id] = working.Clone()
	return working, nil
}
