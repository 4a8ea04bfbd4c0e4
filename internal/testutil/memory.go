// Package testutil provides an in-memory store implementing the
// repository interfaces, so service and handler tests run without
// Postgres while keeping the store's semantics: name uniqueness,
// referential integrity and atomic cascade delete.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dnovoa/payledger/internal/models"
	"github.com/dnovoa/payledger/internal/repositories"
)

type MemoryStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*models.Account
	payments map[uuid.UUID]*models.Payment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[uuid.UUID]*models.Account),
		payments: make(map[uuid.UUID]*models.Payment),
	}
}

var _ repositories.AccountRepository = (*MemoryStore)(nil)

// Payments returns the store's payment-repository view. Both views share
// the same state, so cascade deletes are visible to either.
func (s *MemoryStore) Payments() repositories.PaymentRepository {
	return &memoryPaymentRepo{store: s}
}

type memoryPaymentRepo struct {
	store *MemoryStore
}

func (r *memoryPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	return r.store.CreatePayment(ctx, payment)
}

func (r *memoryPaymentRepo) ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]*models.Payment, error) {
	return r.store.ListByAccountID(ctx, accountID)
}

func (r *memoryPaymentRepo) ListByAccountIDAndRange(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]*models.Payment, error) {
	return r.store.ListByAccountIDAndRange(ctx, accountID, start, end)
}

func (s *MemoryStore) Create(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.accounts {
		if existing.Name == account.Name {
			return repositories.ErrConflict
		}
	}

	account.ID = uuid.New()
	account.CreatedAt = time.Now().UTC()
	stored := *account
	s.accounts[account.ID] = &stored
	return nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (s *MemoryStore) GetByName(ctx context.Context, name string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range s.accounts {
		if account.Name == name {
			copied := *account
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *MemoryStore) Rename(ctx context.Context, account *models.Account, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.accounts[account.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	for _, existing := range s.accounts {
		if existing.Name == newName && existing.ID != account.ID {
			return repositories.ErrConflict
		}
	}

	stored.Name = newName
	account.Name = newName
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.ID]; !ok {
		return repositories.ErrNotFound
	}

	for id, payment := range s.payments {
		if payment.AccountID == account.ID {
			delete(s.payments, id)
		}
	}
	delete(s.accounts, account.ID)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make([]*models.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		copied := *account
		accounts = append(accounts, &copied)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if !accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
		}
		return accounts[i].ID.String() < accounts[j].ID.String()
	})
	return accounts, nil
}

// CreatePayment semantics mirror the foreign key: recording against a
// vanished account fails with ErrNotFound.
func (s *MemoryStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[payment.AccountID]; !ok {
		return repositories.ErrNotFound
	}

	payment.ID = uuid.New()
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}
	stored := *payment
	s.payments[payment.ID] = &stored
	return nil
}

func (s *MemoryStore) ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payments []*models.Payment
	for _, payment := range s.payments {
		if payment.AccountID == accountID {
			copied := *payment
			payments = append(payments, &copied)
		}
	}
	sortPayments(payments)
	return payments, nil
}

func (s *MemoryStore) ListByAccountIDAndRange(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var payments []*models.Payment
	for _, payment := range s.payments {
		if payment.AccountID != accountID {
			continue
		}
		// Closed interval: both bounds inclusive.
		if payment.CreatedAt.Before(start) || payment.CreatedAt.After(end) {
			continue
		}
		copied := *payment
		payments = append(payments, &copied)
	}
	sortPayments(payments)
	return payments, nil
}

// PaymentCount reports the number of stored payments, for cascade
// assertions.
func (s *MemoryStore) PaymentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payments)
}

func sortPayments(payments []*models.Payment) {
	sort.Slice(payments, func(i, j int) bool {
		if !payments[i].CreatedAt.Equal(payments[j].CreatedAt) {
			return payments[i].CreatedAt.Before(payments[j].CreatedAt)
		}
		return payments[i].ID.String() < payments[j].ID.String()
	})
}
