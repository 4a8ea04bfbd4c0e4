package repositories

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dnovoa/payledger/internal/models"
)

const accountNamePrefix = "account:name:"

// CachedAccountRepository fronts an AccountRepository with a Redis
// read-through cache keyed by account name. GetByName is the hot path:
// every authorized request resolves a token back to an account. Cache
// failures are logged and fall back to the underlying store; mutations
// invalidate the affected name keys before returning, so a completed
// create/rename/delete is never shadowed by a stale entry.
type CachedAccountRepository struct {
	inner  AccountRepository
	client *redis.Client
	ttl    time.Duration
}

func NewCachedAccountRepository(inner AccountRepository, client *redis.Client, ttl time.Duration) *CachedAccountRepository {
	return &CachedAccountRepository{inner: inner, client: client, ttl: ttl}
}

func (r *CachedAccountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := r.inner.Create(ctx, account); err != nil {
		return err
	}
	r.invalidate(ctx, account.Name)
	return nil
}

func (r *CachedAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return r.inner.GetByID(ctx, id)
}

func (r *CachedAccountRepository) GetByName(ctx context.Context, name string) (*models.Account, error) {
	key := accountNamePrefix + name

	jsonData, err := r.client.Get(ctx, key).Result()
	if err == nil {
		var account models.Account
		if err := json.Unmarshal([]byte(jsonData), &account); err == nil {
			return &account, nil
		}
		// Unreadable entry: drop it and fall through to the store.
		r.invalidate(ctx, name)
	} else if err != redis.Nil {
		log.Printf("account cache get failed for %q: %v", name, err)
	}

	account, err := r.inner.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(account); err == nil {
		if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
			log.Printf("account cache set failed for %q: %v", name, err)
		}
	}
	return account, nil
}

func (r *CachedAccountRepository) Rename(ctx context.Context, account *models.Account, newName string) error {
	oldName := account.Name
	if err := r.inner.Rename(ctx, account, newName); err != nil {
		return err
	}
	r.invalidate(ctx, oldName, newName)
	return nil
}

func (r *CachedAccountRepository) Delete(ctx context.Context, account *models.Account) error {
	if err := r.inner.Delete(ctx, account); err != nil {
		return err
	}
	r.invalidate(ctx, account.Name)
	return nil
}

func (r *CachedAccountRepository) List(ctx context.Context) ([]*models.Account, error) {
	return r.inner.List(ctx)
}

func (r *CachedAccountRepository) invalidate(ctx context.Context, names ...string) {
	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = accountNamePrefix + name
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("account cache invalidate failed for %v: %v", names, err)
	}
}

var _ AccountRepository = (*CachedAccountRepository)(nil)
