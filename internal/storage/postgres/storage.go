package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/camivel/cuentastrack/internal/domain/errors"
	"github.com/camivel/cuentastrack/internal/domain/model"
	"github.com/camivel/cuentastrack/internal/domain/repository"
)

// Pool is the subset of pgxpool.Pool the storage needs; tests substitute a
// mock pool.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// querier is satisfied by both Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   Pool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type accountRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Accounts() repository.AccountRepository {
	return &accountRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            username TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL,
            name TEXT NOT NULL,
            department TEXT NOT NULL DEFAULT '',
            active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS accounts (
            id SERIAL PRIMARY KEY,
            number TEXT UNIQUE,
            submitter_id BIGINT NOT NULL,
            submitter_name TEXT NOT NULL,
            contract_number TEXT NOT NULL,
            act_number TEXT NOT NULL,
            amount DOUBLE PRECISION NOT NULL,
            description TEXT NOT NULL,
            current_state TEXT NOT NULL,
            owner_id BIGINT,
            owner_name TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS movements (
            id SERIAL PRIMARY KEY,
            account_id BIGINT NOT NULL REFERENCES accounts(id),
            position INT NOT NULL,
            state TEXT NOT NULL,
            actor_id BIGINT NOT NULL DEFAULT 0,
            actor_name TEXT NOT NULL,
            recorded_at TIMESTAMPTZ NOT NULL,
            action TEXT NOT NULL,
            comment TEXT NOT NULL DEFAULT '',
            correction_type TEXT NOT NULL DEFAULT '',
            assigned_id BIGINT,
            assigned_name TEXT NOT NULL DEFAULT '',
            UNIQUE (account_id, position)
        )`,
		`CREATE TABLE IF NOT EXISTS milestones (
            account_id BIGINT NOT NULL REFERENCES accounts(id),
            name TEXT NOT NULL,
            occurred_at TIMESTAMPTZ NOT NULL,
            PRIMARY KEY (account_id, name)
        )`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_submitter ON accounts(submitter_id)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_state ON accounts(current_state)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	const query = `INSERT INTO users (username, password_hash, role, name, department, active)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING id, created_at`
	created := *user
	err := r.storage.pool.QueryRow(ctx, query,
		user.Username, user.PasswordHash, user.Role, user.Name, user.Department, user.Active,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &created, nil
}

const userColumns = `id, username, password_hash, role, name, department, active, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Name, &u.Department, &u.Active, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, username))
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Name, &u.Department, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *userRepository) FirstActiveByRole(ctx context.Context, role model.Role, department string) (*model.User, error) {
	if department != "" {
		const query = `SELECT ` + userColumns + ` FROM users
                       WHERE role=$1 AND active AND department=$2 ORDER BY id LIMIT 1`
		return scanUser(r.storage.pool.QueryRow(ctx, query, role, department))
	}
	const query = `SELECT ` + userColumns + ` FROM users
                   WHERE role=$1 AND active ORDER BY id LIMIT 1`
	return scanUser(r.storage.pool.QueryRow(ctx, query, role))
}

// --- AccountRepository implementation ---

func (r *accountRepository) Create(ctx context.Context, account *model.Account) (*model.Account, error) {
	created := account.Clone()
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		submitted, ok := account.Milestones[model.MilestoneSubmission]
		if !ok {
			submitted = time.Now()
		}

		const insert = `INSERT INTO accounts
            (submitter_id, submitter_name, contract_number, act_number, amount, description,
             current_state, owner_id, owner_name, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
            RETURNING id`
		err := tx.QueryRow(ctx, insert,
			account.SubmitterID, account.SubmitterName, account.ContractNumber, account.ActNumber,
			account.Amount, account.Description, account.CurrentState,
			nullableID(account.OwnerID), account.OwnerName, submitted,
		).Scan(&created.ID)
		if err != nil {
			return err
		}

		created.Number = model.AccountNumber(submitted, created.ID)
		created.CreatedAt = submitted
		created.UpdatedAt = submitted
		if _, err := tx.Exec(ctx, `UPDATE accounts SET number=$1 WHERE id=$2`, created.Number, created.ID); err != nil {
			return err
		}

		if err := insertMovements(ctx, tx, created.ID, 0, created.History); err != nil {
			return err
		}
		return upsertMilestones(ctx, tx, created.ID, created.Milestones)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	return loadAccount(ctx, r.storage.pool, id, false)
}

const accountColumns = `id, number, submitter_id, submitter_name, contract_number, act_number,
       amount, description, current_state, owner_id, owner_name, created_at, updated_at`

func scanAccountRow(row pgx.Row) (*model.Account, error) {
	var (
		acc     model.Account
		ownerID *int64
	)
	err := row.Scan(&acc.ID, &acc.Number, &acc.SubmitterID, &acc.SubmitterName,
		&acc.ContractNumber, &acc.ActNumber, &acc.Amount, &acc.Description,
		&acc.CurrentState, &ownerID, &acc.OwnerName, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if ownerID != nil {
		acc.OwnerID = *ownerID
	}
	return &acc, nil
}

func loadAccount(ctx context.Context, q querier, id int64, forUpdate bool) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id=$1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	acc, err := scanAccountRow(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := loadHistory(ctx, q, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

func loadHistory(ctx context.Context, q querier, acc *model.Account) error {
	const movementsQuery = `SELECT state, actor_id, actor_name, recorded_at, action, comment,
               correction_type, assigned_id, assigned_name
          FROM movements WHERE account_id=$1 ORDER BY position`
	rows, err := q.Query(ctx, movementsQuery, acc.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			mv         model.Movement
			assignedID *int64
		)
		if err := rows.Scan(&mv.State, &mv.ActorID, &mv.ActorName, &mv.RecordedAt, &mv.Action,
			&mv.Comment, &mv.CorrectionType, &assignedID, &mv.AssignedName); err != nil {
			return err
		}
		if assignedID != nil {
			mv.AssignedID = *assignedID
		}
		acc.History = append(acc.History, mv)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	const milestonesQuery = `SELECT name, occurred_at FROM milestones WHERE account_id=$1`
	mrows, err := q.Query(ctx, milestonesQuery, acc.ID)
	if err != nil {
		return err
	}
	defer mrows.Close()

	acc.Milestones = make(map[string]time.Time)
	for mrows.Next() {
		var (
			name string
			at   time.Time
		)
		if err := mrows.Scan(&name, &at); err != nil {
			return err
		}
		acc.Milestones[name] = at
	}
	return mrows.Err()
}

func (r *accountRepository) List(ctx context.Context) ([]model.Account, error) {
	const query = `SELECT id FROM accounts ORDER BY id`
	return r.loadMany(ctx, query)
}

func (r *accountRepository) ListBySubmitter(ctx context.Context, submitterID int64) ([]model.Account, error) {
	const query = `SELECT id FROM accounts WHERE submitter_id=$1 ORDER BY id`
	return r.loadMany(ctx, query, submitterID)
}

func (r *accountRepository) ListByState(ctx context.Context, state model.State) ([]model.Account, error) {
	const query = `SELECT id FROM accounts WHERE current_state=$1 ORDER BY id`
	return r.loadMany(ctx, query, state)
}

func (r *accountRepository) loadMany(ctx context.Context, query string, args ...any) ([]model.Account, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	var result []model.Account
	for _, id := range ids {
		acc, err := loadAccount(ctx, r.storage.pool, id, false)
		if err != nil {
			return nil, err
		}
		result = append(result, *acc)
	}
	return result, nil
}

func (r *accountRepository) CountByState(ctx context.Context) (map[model.State]int, error) {
	const query = `SELECT current_state, COUNT(*) FROM accounts GROUP BY current_state`
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.State]int)
	for rows.Next() {
		var (
			state model.State
			n     int
		)
		if err := rows.Scan(&state, &n); err != nil {
			return nil, err
		}
		counts[state] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// Update serializes the read-modify-write through a row lock so two
// concurrent transitions on the same account cannot lose each other.
func (r *accountRepository) Update(ctx context.Context, id int64, mutate func(*model.Account) error) (*model.Account, error) {
	var updated *model.Account
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		acc, err := loadAccount(ctx, tx, id, true)
		if err != nil {
			return err
		}

		before := len(acc.History)
		if err := mutate(acc); err != nil {
			return err
		}

		const update = `UPDATE accounts
            SET current_state=$1, owner_id=$2, owner_name=$3, updated_at=NOW()
            WHERE id=$4`
		if _, err := tx.Exec(ctx, update, acc.CurrentState, nullableID(acc.OwnerID), acc.OwnerName, acc.ID); err != nil {
			return err
		}

		if err := insertMovements(ctx, tx, acc.ID, before, acc.History[before:]); err != nil {
			return err
		}
		if err := upsertMilestones(ctx, tx, acc.ID, acc.Milestones); err != nil {
			return err
		}

		updated = acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func insertMovements(ctx context.Context, tx pgx.Tx, accountID int64, offset int, movements []model.Movement) error {
	const insert = `INSERT INTO movements
        (account_id, position, state, actor_id, actor_name, recorded_at, action,
         comment, correction_type, assigned_id, assigned_name)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for i, mv := range movements {
		if _, err := tx.Exec(ctx, insert,
			accountID, offset+i, mv.State, mv.ActorID, mv.ActorName, mv.RecordedAt,
			mv.Action, mv.Comment, mv.CorrectionType, nullableID(mv.AssignedID), mv.AssignedName,
		); err != nil {
			return err
		}
	}
	return nil
}

func upsertMilestones(ctx context.Context, tx pgx.Tx, accountID int64, milestones map[string]time.Time) error {
	const upsert = `INSERT INTO milestones (account_id, name, occurred_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (account_id, name) DO UPDATE SET occurred_at = EXCLUDED.occurred_at`
	for name, at := range milestones {
		if _, err := tx.Exec(ctx, upsert, accountID, name, at); err != nil {
			return err
		}
	}
	return nil
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
