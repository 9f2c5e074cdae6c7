package service

import (
	"context"
	"errors"
	"fmt"

	"bankbot/internal/domain"
	"bankbot/internal/repository"
)

// AccountService handles account lifecycle and preferences
type AccountService struct {
	repo repository.AccountRepository
}

// NewAccountService creates a new account service
func NewAccountService(repo repository.AccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

// EnsureAccount returns the account for a user, creating a default one
// (zero balance, no locale, no methods) on first contact. Idempotent.
func (s *AccountService) EnsureAccount(ctx context.Context, userID int64) (*domain.Account, error) {
	account, err := s.repo.GetAccount(ctx, userID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	if err := s.repo.CreateAccount(ctx, userID); err != nil {
		return nil, fmt.Errorf("creating default account: %w", err)
	}
	return s.repo.GetAccount(ctx, userID)
}

// GetAccount returns the account for a user
func (s *AccountService) GetAccount(ctx context.Context, userID int64) (*domain.Account, error) {
	return s.repo.GetAccount(ctx, userID)
}

// SetLocale stores the chosen interface language
func (s *AccountService) SetLocale(ctx context.Context, userID int64, locale domain.Locale) error {
	switch locale {
	case domain.LocaleEnglish, domain.LocalePortuguese:
	default:
		return fmt.Errorf("unsupported locale %q", locale)
	}
	return s.repo.SetLocale(ctx, userID, locale)
}
