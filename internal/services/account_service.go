package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dnovoa/payledger/internal/models"
	"github.com/dnovoa/payledger/internal/repositories"
)

const maxNameLength = 80

var ErrInvalidName = errors.New("name must be between 1 and 80 characters")

// AccountService owns the account lifecycle: registration, rename,
// deletion (cascading to payments) and listing. Uniqueness is ultimately
// arbitrated by the store's constraint, so a losing racer on create or
// rename observes repositories.ErrConflict.
type AccountService struct {
	accountRepo repositories.AccountRepository
}

func NewAccountService(accountRepo repositories.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

func (s *AccountService) Create(ctx context.Context, name string) (*models.Account, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	account := &models.Account{Name: name}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) GetByName(ctx context.Context, name string) (*models.Account, error) {
	return s.accountRepo.GetByName(ctx, name)
}

func (s *AccountService) Rename(ctx context.Context, name, newName string) (*models.Account, error) {
	newName, err := validateName(newName)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Rename(ctx, account, newName); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) Delete(ctx context.Context, name string) error {
	account, err := s.accountRepo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	return s.accountRepo.Delete(ctx, account)
}

func (s *AccountService) List(ctx context.Context) ([]*models.Account, error) {
	return s.accountRepo.List(ctx)
}

// validateName trims the candidate name and enforces the 1-80 character
// rule. Uniqueness is not checked here; the store's constraint decides.
func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}
