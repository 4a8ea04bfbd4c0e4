package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnovoa/payledger/internal/models"
	"github.com/dnovoa/payledger/internal/repositories"
	"github.com/dnovoa/payledger/internal/testutil"
)

func newLedgerFixture(t *testing.T) (*testutil.MemoryStore, *AccountService, *LedgerService) {
	t.Helper()
	store := testutil.NewMemoryStore()
	return store, NewAccountService(store), NewLedgerService(store, store.Payments())
}

func TestLedgerService_Record(t *testing.T) {
	_, accounts, ledger := newLedgerFixture(t)
	ctx := context.Background()

	_, err := accounts.Create(ctx, "alice")
	require.NoError(t, err)

	payment, err := ledger.Record(ctx, "alice", 50.0)
	require.NoError(t, err)
	assert.Equal(t, 50.0, payment.Amount)
	assert.False(t, payment.CreatedAt.IsZero())

	payments, err := ledger.ListByAccount(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, payment.ID, payments[0].ID)
}

func TestLedgerService_Record_NonPositiveAmount(t *testing.T) {
	store, accounts, ledger := newLedgerFixture(t)
	ctx := context.Background()

	_, err := accounts.Create(ctx, "alice")
	require.NoError(t, err)

	for _, amount := range []float64{0, -1, -0.01} {
		_, err := ledger.Record(ctx, "alice", amount)
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %v", amount)
	}
	assert.Equal(t, 0, store.PaymentCount(), "no payment may be created on rejection")
}

func TestLedgerService_Record_UnknownAccount(t *testing.T) {
	_, _, ledger := newLedgerFixture(t)

	_, err := ledger.Record(context.Background(), "ghost", 10)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestLedgerService_DeleteCascades(t *testing.T) {
	store, accounts, ledger := newLedgerFixture(t)
	ctx := context.Background()

	_, err := accounts.Create(ctx, "alice")
	require.NoError(t, err)
	_, err = ledger.Record(ctx, "alice", 50)
	require.NoError(t, err)
	_, err = ledger.Record(ctx, "alice", 75)
	require.NoError(t, err)

	require.NoError(t, accounts.Delete(ctx, "alice"))

	_, err = ledger.ListByAccount(ctx, "alice")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Equal(t, 0, store.PaymentCount(), "cascade must remove every payment")
}

func TestLedgerService_ListByRange_InclusiveBounds(t *testing.T) {
	store, accounts, ledger := newLedgerFixture(t)
	ctx := context.Background()

	account, err := accounts.Create(ctx, "alice")
	require.NoError(t, err)

	instant := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	inside := &models.Payment{Amount: 50, AccountID: account.ID, CreatedAt: instant}
	require.NoError(t, store.CreatePayment(ctx, inside))
	before := &models.Payment{Amount: 10, AccountID: account.ID, CreatedAt: instant.Add(-time.Hour)}
	require.NoError(t, store.CreatePayment(ctx, before))
	after := &models.Payment{Amount: 20, AccountID: account.ID, CreatedAt: instant.Add(time.Hour)}
	require.NoError(t, store.CreatePayment(ctx, after))

	// start == end returns exactly the payments at that instant.
	payments, err := ledger.ListByRange(ctx, "alice", instant.Format(time.RFC3339), instant.Format(time.RFC3339))
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, inside.ID, payments[0].ID)

	// Both boundary payments are included in a wider range.
	payments, err = ledger.ListByRange(ctx, "alice",
		instant.Add(-time.Hour).Format(time.RFC3339),
		instant.Add(time.Hour).Format(time.RFC3339))
	require.NoError(t, err)
	assert.Len(t, payments, 3)
}

func TestLedgerService_ListByRange_DateOnlyBounds(t *testing.T) {
	store, accounts, ledger := newLedgerFixture(t)
	ctx := context.Background()

	account, err := accounts.Create(ctx, "alice")
	require.NoError(t, err)

	payment := &models.Payment{
		Amount:    50,
		AccountID: account.ID,
		CreatedAt: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.CreatePayment(ctx, payment))

	payments, err := ledger.ListByRange(ctx, "alice", "2026-03-14", "2026-03-15")
	require.NoError(t, err)
	assert.Len(t, payments, 1, "date-only end bound is midnight UTC, inclusive")
}

func TestLedgerService_ListByRange_Invalid(t *testing.T) {
	_, accounts, ledger := newLedgerFixture(t)
	ctx := context.Background()

	_, err := accounts.Create(ctx, "alice")
	require.NoError(t, err)

	_, err = ledger.ListByRange(ctx, "alice", "2026-03-15", "2026-03-14")
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = ledger.ListByRange(ctx, "alice", "not-a-date", "2026-03-15")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ledger.ListByRange(ctx, "alice", "2026-03-15", "")
	assert.ErrorIs(t, err, ErrInvalidDate)

	// Bounds are validated before the account is resolved: a bad range
	// never produces partial results.
	_, err = ledger.ListByRange(ctx, "ghost", "2026-03-15", "2026-03-14")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}
