package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnovoa/payledger/internal/repositories"
	"github.com/dnovoa/payledger/internal/testutil"
)

func TestAccountService_Create_RoundTrip(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := NewAccountService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Name)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := svc.GetByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "alice", found.Name)
}

func TestAccountService_Create_TrimsName(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := NewAccountService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, "  alice  ")
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Name)
}

func TestAccountService_Create_InvalidNames(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := NewAccountService(store)
	ctx := context.Background()

	for _, name := range []string{"", "   ", strings.Repeat("x", 81)} {
		_, err := svc.Create(ctx, name)
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}

	// 80 characters is still valid.
	_, err := svc.Create(ctx, strings.Repeat("x", 80))
	assert.NoError(t, err)
}

func TestAccountService_Create_Duplicate(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := NewAccountService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "alice")
	assert.ErrorIs(t, err, repositories.ErrConflict)
}

func TestAccountService_Rename(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := NewAccountService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice")
	require.NoError(t, err)

	renamed, err := svc.Rename(ctx, "alice", "alicia")
	require.NoError(t, err)
	assert.Equal(t, created.ID, renamed.ID)
	assert.Equal(t, "alicia", renamed.Name)

	_, err = svc.GetByName(ctx, "alice")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	found, err := svc.GetByName(ctx, "alicia")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestAccountService_Rename_Conflict(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := NewAccountService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "bob")
	require.NoError(t, err)

	_, err = svc.Rename(ctx, "alice", "bob")
	assert.ErrorIs(t, err, repositories.ErrConflict)
}

func TestAccountService_Rename_Validation(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := NewAccountService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.Rename(ctx, "alice", "   ")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = svc.Rename(ctx, "ghost", "anything")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestAccountService_Delete(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := NewAccountService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "alice"))

	_, err = svc.GetByName(ctx, "alice")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "alice"), repositories.ErrNotFound)
}

func TestAccountService_List_StableOrder(t *testing.T) {
	store := testutil.NewMemoryStore()
	svc := NewAccountService(store)
	ctx := context.Background()

	for _, name := range []string{"carol", "alice", "bob"} {
		_, err := svc.Create(ctx, name)
		require.NoError(t, err)
	}

	first, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 3)

	second, err := svc.List(ctx)
	require.NoError(t, err)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}
