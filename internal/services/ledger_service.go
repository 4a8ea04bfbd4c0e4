package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dnovoa/payledger/internal/models"
	"github.com/dnovoa/payledger/internal/repositories"
)

var (
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)

// Range bounds are accepted as RFC 3339 timestamps or bare dates; a bare
// date means midnight UTC of that day.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// LedgerService records payments against accounts and retrieves them,
// optionally filtered by a closed date interval. Payments are immutable
// once recorded and only disappear when their account is deleted.
type LedgerService struct {
	accountRepo repositories.AccountRepository
	paymentRepo repositories.PaymentRepository
}

func NewLedgerService(accountRepo repositories.AccountRepository, paymentRepo repositories.PaymentRepository) *LedgerService {
	return &LedgerService{accountRepo: accountRepo, paymentRepo: paymentRepo}
}

// Record persists a payment of the given amount against the named
// account. A delete racing this call either loses (the payment commits
// first) or wins, in which case the insert fails with ErrNotFound.
func (s *LedgerService) Record(ctx context.Context, name string, amount float64) (*models.Payment, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	account, err := s.accountRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{Amount: amount, AccountID: account.ID}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *LedgerService) ListByAccount(ctx context.Context, name string) ([]*models.Payment, error) {
	account, err := s.accountRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByAccountID(ctx, account.ID)
}

// ListByRange returns the named account's payments with created_at in
// [start, end], both bounds inclusive.
func (s *LedgerService) ListByRange(ctx context.Context, name, startStr, endStr string) ([]*models.Payment, error) {
	start, err := parseDate(startStr)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(endStr)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	account, err := s.accountRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByAccountIDAndRange(ctx, account.ID, start, end)
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}
