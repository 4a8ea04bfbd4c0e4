package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dnovoa/payledger/internal/models"
)

type PostgresPaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPaymentRepository(pool *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{pool: pool}
}

// Create inserts the payment and fills in its generated id and created_at.
// If the owning account was deleted concurrently the foreign key rejects
// the insert and the caller sees ErrNotFound, never an orphaned row.
func (r *PostgresPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	query := `INSERT INTO payments (amount, account_id)
              VALUES ($1, $2)
              RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, payment.Amount, payment.AccountID).
		Scan(&payment.ID, &payment.CreatedAt)
	if isForeignKeyViolation(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *PostgresPaymentRepository) ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]*models.Payment, error) {
	query := `SELECT id, amount, account_id, created_at
              FROM payments
              WHERE account_id = $1
              ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	return scanPayments(rows)
}

// ListByAccountIDAndRange uses BETWEEN, so both bounds are inclusive:
// a payment created exactly at start or exactly at end is returned.
func (r *PostgresPaymentRepository) ListByAccountIDAndRange(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]*models.Payment, error) {
	query := `SELECT id, amount, account_id, created_at
              FROM payments
              WHERE account_id = $1 AND created_at BETWEEN $2 AND $3
              ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, accountID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by range: %w", err)
	}
	defer rows.Close()

	return scanPayments(rows)
}

func scanPayments(rows pgx.Rows) ([]*models.Payment, error) {
	var payments []*models.Payment
	for rows.Next() {
		var payment models.Payment
		if err := rows.Scan(&payment.ID, &payment.Amount, &payment.AccountID, &payment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, &payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payments: %w", err)
	}
	return payments, nil
}
