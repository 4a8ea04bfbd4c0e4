package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dnovoa/payledger/internal/models"
)

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByName(ctx context.Context, name string) (*models.Account, error)
	// Rename updates the account's name in place; account.Name reflects
	// the new name on success.
	Rename(ctx context.Context, account *models.Account, newName string) error
	// Delete removes the account and every payment it owns in a single
	// transaction.
	Delete(ctx context.Context, account *models.Account) error
	List(ctx context.Context) ([]*models.Account, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]*models.Payment, error)
	// ListByAccountIDAndRange returns payments with created_at in the
	// closed interval [start, end]. Both bounds are inclusive.
	ListByAccountIDAndRange(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]*models.Payment, error)
}
