package testutil

import (
	"context"

	"bankbot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock for repository.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetAccount(ctx context.Context, userID int64) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CreateAccount(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAccountRepository) SetLocale(ctx context.Context, userID int64, locale domain.Locale) error {
	args := m.Called(ctx, userID, locale)
	return args.Error(0)
}

func (m *MockAccountRepository) Deposit(ctx context.Context, userID int64, tx domain.Transaction) (int64, error) {
	args := m.Called(ctx, userID, tx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) Withdraw(ctx context.Context, userID int64, tx domain.Transaction) (int64, error) {
	args := m.Called(ctx, userID, tx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) AppendMethod(ctx context.Context, userID int64, method domain.PaymentMethod) error {
	args := m.Called(ctx, userID, method)
	return args.Error(0)
}
