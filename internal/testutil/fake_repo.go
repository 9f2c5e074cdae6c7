package testutil

import (
	"context"
	"sync"
	"time"

	"bankbot/internal/domain"
)

// FakeAccountRepo is an in-memory repository.AccountRepository for
// multi-step conversation tests, where a testify mock would need a
// scripted expectation for every intermediate read. Setting FailWith
// makes every call return that error, simulating an unreachable store.
type FakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[int64]*domain.Account
	FailWith error
}

// NewFakeAccountRepo creates an empty fake repository
func NewFakeAccountRepo() *FakeAccountRepo {
	return &FakeAccountRepo{accounts: make(map[int64]*domain.Account)}
}

// Seed inserts an account directly, bypassing CreateAccount defaults
func (f *FakeAccountRepo) Seed(account *domain.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[account.UserID] = account
}

func (f *FakeAccountRepo) GetAccount(_ context.Context, userID int64) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWith != nil {
		return nil, f.FailWith
	}

	account, ok := f.accounts[userID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return copyAccount(account), nil
}

func (f *FakeAccountRepo) CreateAccount(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWith != nil {
		return f.FailWith
	}

	if _, ok := f.accounts[userID]; !ok {
		f.accounts[userID] = &domain.Account{UserID: userID, CreatedAt: time.Now()}
	}
	return nil
}

func (f *FakeAccountRepo) SetLocale(_ context.Context, userID int64, locale domain.Locale) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWith != nil {
		return f.FailWith
	}

	account, ok := f.accounts[userID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.Locale = locale
	return nil
}

func (f *FakeAccountRepo) Deposit(_ context.Context, userID int64, tx domain.Transaction) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWith != nil {
		return 0, f.FailWith
	}

	account, ok := f.accounts[userID]
	if !ok {
		return 0, domain.ErrAccountNotFound
	}
	account.Balance += tx.Amount
	account.LastTransaction = &tx
	return account.Balance, nil
}

func (f *FakeAccountRepo) Withdraw(_ context.Context, userID int64, tx domain.Transaction) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWith != nil {
		return 0, f.FailWith
	}

	account, ok := f.accounts[userID]
	if !ok {
		return 0, domain.ErrAccountNotFound
	}
	if tx.Amount > account.Balance {
		return 0, domain.ErrInsufficientBalance
	}
	account.Balance -= tx.Amount
	account.LastTransaction = &tx
	return account.Balance, nil
}

func (f *FakeAccountRepo) AppendMethod(_ context.Context, userID int64, method domain.PaymentMethod) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWith != nil {
		return f.FailWith
	}

	account, ok := f.accounts[userID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.Methods = append(account.Methods, method)
	return nil
}

// MustGet returns the stored account for assertions, panicking if absent
func (f *FakeAccountRepo) MustGet(userID int64) *domain.Account {
	f.mu.Lock()
	defer f.mu.Unlock()

	account, ok := f.accounts[userID]
	if !ok {
		panic("testutil: no account for user")
	}
	return copyAccount(account)
}

func copyAccount(a *domain.Account) *domain.Account {
	out := *a
	out.Methods = append([]domain.PaymentMethod(nil), a.Methods...)
	if a.LastTransaction != nil {
		tx := *a.LastTransaction
		out.LastTransaction = &tx
	}
	return &out
}
