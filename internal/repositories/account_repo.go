package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dnovoa/payledger/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Postgres error codes worth distinguishing at this boundary.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

func (r *PostgresAccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `INSERT INTO accounts (name)
              VALUES ($1)
              RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, account.Name).
		Scan(&account.ID, &account.CreatedAt)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT id, name, created_at FROM accounts WHERE id = $1`

	var account models.Account
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&account.ID, &account.Name, &account.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *PostgresAccountRepository) GetByName(ctx context.Context, name string) (*models.Account, error) {
	query := `SELECT id, name, created_at FROM accounts WHERE name = $1`

	var account models.Account
	err := r.pool.QueryRow(ctx, query, name).
		Scan(&account.ID, &account.Name, &account.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *PostgresAccountRepository) Rename(ctx context.Context, account *models.Account, newName string) error {
	query := `UPDATE accounts SET name = $1 WHERE id = $2`

	result, err := r.pool.Exec(ctx, query, newName, account.ID)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to rename account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	account.Name = newName
	return nil
}

// Delete removes the account row together with all of its payments. Both
// deletes run in one transaction so a failure at any point leaves the
// store untouched and no payment can outlive its account.
func (r *PostgresAccountRepository) Delete(ctx context.Context, account *models.Account) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM payments WHERE account_id = $1`, account.ID); err != nil {
		return fmt.Errorf("failed to delete payments: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, account.ID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

func (r *PostgresAccountRepository) List(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT id, name, created_at FROM accounts ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(&account.ID, &account.Name, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
