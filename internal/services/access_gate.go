package services

import (
	"context"

	"github.com/dnovoa/payledger/internal/models"
	"github.com/dnovoa/payledger/internal/repositories"
)

// AccessGate authorizes protected operations. A single attempt walks a
// fixed chain of checks, each failure terminal:
//
//	token present -> signature valid -> not expired -> account exists
//
// Verification only yields an account name; the gate then resolves it
// against the store, so a token issued before the account was deleted
// still verifies but fails resolution with ErrNotFound.
type AccessGate struct {
	tokens      *TokenService
	accountRepo repositories.AccountRepository
}

func NewAccessGate(tokens *TokenService, accountRepo repositories.AccountRepository) *AccessGate {
	return &AccessGate{tokens: tokens, accountRepo: accountRepo}
}

func (g *AccessGate) Authorize(ctx context.Context, rawToken string) (*models.Account, error) {
	if rawToken == "" {
		return nil, ErrMissingToken
	}

	name, err := g.tokens.Verify(rawToken)
	if err != nil {
		return nil, err
	}

	return g.accountRepo.GetByName(ctx, name)
}
