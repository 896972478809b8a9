package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/camivel/cuentastrack/internal/domain/errors"
	"github.com/camivel/cuentastrack/internal/domain/model"
	"github.com/camivel/cuentastrack/internal/domain/repository"
)

const (
	usersFile    = "users.json"
	accountsFile = "accounts.json"
)

// Storage keeps users and accounts in JSON files under a single directory.
// Every operation reloads the file so external edits between requests are
// picked up; a mutex per collection serializes read-modify-write cycles
// within the process. The locks are separate so an account update can look
// users up mid-mutation without re-entering its own lock.
type Storage struct {
	dir        string
	usersMu    sync.Mutex
	accountsMu sync.Mutex
	logger     *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type accountRepository struct {
	storage *Storage
}

// New creates the data directory if needed and returns the storage.
func New(dir string, logger *slog.Logger) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Storage{dir: dir, logger: logger}, nil
}

func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Accounts() repository.AccountRepository {
	return &accountRepository{storage: s}
}

// --- file records ---

type userRecord struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	Name         string    `json:"name"`
	Department   string    `json:"department,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

type movementRecord struct {
	State          string    `json:"state"`
	ActorID        int64     `json:"actor_id,omitempty"`
	ActorName      string    `json:"actor_name"`
	RecordedAt     time.Time `json:"recorded_at"`
	Action         string    `json:"action"`
	Comment        string    `json:"comment,omitempty"`
	CorrectionType string    `json:"correction_type,omitempty"`
	AssignedID     int64     `json:"assigned_id,omitempty"`
	AssignedName   string    `json:"assigned_name,omitempty"`
}

type accountRecord struct {
	ID             int64                `json:"id"`
	Number         string               `json:"number"`
	SubmitterID    int64                `json:"submitter_id"`
	SubmitterName  string               `json:"submitter_name"`
	ContractNumber string               `json:"contract_number"`
	ActNumber      string               `json:"act_number"`
	Amount         float64              `json:"amount"`
	Description    string               `json:"description"`
	CurrentState   string               `json:"current_state"`
	OwnerID        int64                `json:"owner_id,omitempty"`
	OwnerName      string               `json:"owner_name,omitempty"`
	Milestones     map[string]time.Time `json:"milestones"`
	History        []movementRecord     `json:"history"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

func toUserRecord(u *model.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Name:         u.Name,
		Department:   u.Department,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
	}
}

func fromUserRecord(r userRecord) model.User {
	return model.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Role:         model.Role(r.Role),
		Name:         r.Name,
		Department:   r.Department,
		Active:       r.Active,
		CreatedAt:    r.CreatedAt,
	}
}

func toAccountRecord(a *model.Account) accountRecord {
	rec := accountRecord{
		ID:             a.ID,
		Number:         a.Number,
		SubmitterID:    a.SubmitterID,
		SubmitterName:  a.SubmitterName,
		ContractNumber: a.ContractNumber,
		ActNumber:      a.ActNumber,
		Amount:         a.Amount,
		Description:    a.Description,
		CurrentState:   string(a.CurrentState),
		OwnerID:        a.OwnerID,
		OwnerName:      a.OwnerName,
		Milestones:     a.Milestones,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
	for _, mv := range a.History {
		rec.History = append(rec.History, movementRecord{
			State:          string(mv.State),
			ActorID:        mv.ActorID,
			ActorName:      mv.ActorName,
			RecordedAt:     mv.RecordedAt,
			Action:         string(mv.Action),
			Comment:        mv.Comment,
			CorrectionType: string(mv.CorrectionType),
			AssignedID:     mv.AssignedID,
			AssignedName:   mv.AssignedName,
		})
	}
	return rec
}

func fromAccountRecord(r accountRecord) model.Account {
	acc := model.Account{
		ID:             r.ID,
		Number:         r.Number,
		SubmitterID:    r.SubmitterID,
		SubmitterName:  r.SubmitterName,
		ContractNumber: r.ContractNumber,
		ActNumber:      r.ActNumber,
		Amount:         r.Amount,
		Description:    r.Description,
		CurrentState:   model.State(r.CurrentState),
		OwnerID:        r.OwnerID,
		OwnerName:      r.OwnerName,
		Milestones:     r.Milestones,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if acc.Milestones == nil {
		acc.Milestones = make(map[string]time.Time)
	}
	for _, mv := range r.History {
		acc.History = append(acc.History, model.Movement{
			State:          model.State(mv.State),
			ActorID:        mv.ActorID,
			ActorName:      mv.ActorName,
			RecordedAt:     mv.RecordedAt,
			Action:         model.ActionKind(mv.Action),
			Comment:        mv.Comment,
			CorrectionType: model.CorrectionType(mv.CorrectionType),
			AssignedID:     mv.AssignedID,
			AssignedName:   mv.AssignedName,
		})
	}
	return acc
}

// --- file IO ---

func readJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return records, nil
}

// writeJSON rewrites the whole file through a temp file and rename. Keeps
// non-ASCII text as-is instead of \u escapes.
func writeJSON[T any](path string, records []T) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("temp file: %w", err)
	}

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if records == nil {
		records = []T{}
	}
	if err := enc.Encode(records); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *Storage) usersPath() string    { return filepath.Join(s.dir, usersFile) }
func (s *Storage) accountsPath() string { return filepath.Join(s.dir, accountsFile) }

func nextID[T any](records []T, id func(T) int64) int64 {
	var max int64
	for _, r := range records {
		if id(r) > max {
			max = id(r)
		}
	}
	return max + 1
}

// --- UserRepository implementation ---

func (r *userRepository) Create(_ context.Context, user *model.User) (*model.User, error) {
	s := r.storage
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	records, err := readJSON[userRecord](s.usersPath())
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.Username == user.Username {
			return nil, domainErrors.ErrAlreadyExists
		}
	}

	created := *user
	created.ID = nextID(records, func(u userRecord) int64 { return u.ID })
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now()
	}
	records = append(records, toUserRecord(&created))

	if err := writeJSON(s.usersPath(), records); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *userRepository) GetByID(_ context.Context, id int64) (*model.User, error) {
	s := r.storage
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	records, err := readJSON[userRecord](s.usersPath())
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID == id {
			u := fromUserRecord(rec)
			return &u, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (r *userRepository) GetByUsername(_ context.Context, username string) (*model.User, error) {
	s := r.storage
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	records, err := readJSON[userRecord](s.usersPath())
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.Username == username {
			u := fromUserRecord(rec)
			return &u, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (r *userRepository) List(_ context.Context) ([]model.User, error) {
	s := r.storage
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	records, err := readJSON[userRecord](s.usersPath())
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	users := make([]model.User, 0, len(records))
	for _, rec := range records {
		users = append(users, fromUserRecord(rec))
	}
	return users, nil
}

func (r *userRepository) FirstActiveByRole(_ context.Context, role model.Role, department string) (*model.User, error) {
	s := r.storage
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	records, err := readJSON[userRecord](s.usersPath())
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	for _, rec := range records {
		if rec.Role != string(role) || !rec.Active {
			continue
		}
		if department != "" && rec.Department != department {
			continue
		}
		u := fromUserRecord(rec)
		return &u, nil
	}
	return nil, domainErrors.ErrNotFound
}

// --- AccountRepository implementation ---

func (r *accountRepository) Create(_ context.Context, account *model.Account) (*model.Account, error) {
	s := r.storage
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	records, err := readJSON[accountRecord](s.accountsPath())
	if err != nil {
		return nil, err
	}

	created := account.Clone()
	created.ID = nextID(records, func(a accountRecord) int64 { return a.ID })

	submitted, ok := created.Milestones[model.MilestoneSubmission]
	if !ok {
		submitted = time.Now()
	}
	created.Number = model.AccountNumber(submitted, created.ID)
	created.CreatedAt = submitted
	created.UpdatedAt = submitted

	records = append(records, toAccountRecord(created))
	if err := writeJSON(s.accountsPath(), records); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *accountRepository) GetByID(_ context.Context, id int64) (*model.Account, error) {
	s := r.storage
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	records, err := readJSON[accountRecord](s.accountsPath())
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID == id {
			acc := fromAccountRecord(rec)
			return &acc, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (r *accountRepository) list(filter func(accountRecord) bool) ([]model.Account, error) {
	s := r.storage
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	records, err := readJSON[accountRecord](s.accountsPath())
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	var accounts []model.Account
	for _, rec := range records {
		if filter != nil && !filter(rec) {
			continue
		}
		accounts = append(accounts, fromAccountRecord(rec))
	}
	return accounts, nil
}

func (r *accountRepository) List(_ context.Context) ([]model.Account, error) {
	return r.list(nil)
}

func (r *accountRepository) ListBySubmitter(_ context.Context, submitterID int64) ([]model.Account, error) {
	return r.list(func(rec accountRecord) bool { return rec.SubmitterID == submitterID })
}

func (r *accountRepository) ListByState(_ context.Context, state model.State) ([]model.Account, error) {
	return r.list(func(rec accountRecord) bool { return rec.CurrentState == string(state) })
}

func (r *accountRepository) CountByState(_ context.Context) (map[model.State]int, error) {
	s := r.storage
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	records, err := readJSON[accountRecord](s.accountsPath())
	if err != nil {
		return nil, err
	}
	counts := make(map[model.State]int)
	for _, rec := range records {
		counts[model.State(rec.CurrentState)]++
	}
	return counts, nil
}

// Update applies mutate under the store mutex so concurrent transitions on
// the same account cannot interleave. A mutate error leaves the file
// untouched.
func (r *accountRepository) Update(_ context.Context, id int64, mutate func(*model.Account) error) (*model.Account, error) {
	s := r.storage
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	records, err := readJSON[accountRecord](s.accountsPath())
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, rec := range records {
		if rec.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domainErrors.ErrNotFound
	}

	acc := fromAccountRecord(records[idx])
	if err := mutate(&acc); err != nil {
		return nil, err
	}
	acc.UpdatedAt = time.Now()

	records[idx] = toAccountRecord(&acc)
	if err := writeJSON(s.accountsPath(), records); err != nil {
		return nil, err
	}
	return &acc, nil
}
