package service

import (
	"context"
	"fmt"
	"time"

	"bankbot/internal/domain"
	"bankbot/internal/repository"

	"github.com/google/uuid"
)

// LedgerService applies confirmed transactions to account balances
type LedgerService struct {
	repo repository.AccountRepository
	now  func() time.Time
}

// NewLedgerService creates a new ledger service
func NewLedgerService(repo repository.AccountRepository) *LedgerService {
	return &LedgerService{
		repo: repo,
		now:  time.Now,
	}
}

// Execute applies a deposit or withdrawal and records it as the
// account's last transaction, returning the new balance. Withdrawals
// exceeding the balance fail with domain.ErrInsufficientBalance and
// mutate nothing. Each call mutates state exactly once; the caller
// must not invoke it twice for the same confirmed session.
func (s *LedgerService) Execute(ctx context.Context, userID int64, kind domain.TransactionKind, amount int64, methodDescription string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("transaction amount must be positive, got %d", amount)
	}

	tx := domain.Transaction{
		ID:        uuid.New(),
		Kind:      kind,
		Amount:    amount,
		Method:    methodDescription,
		CreatedAt: s.now().UTC(),
	}

	switch kind {
	case domain.KindDeposit:
		return s.repo.Deposit(ctx, userID, tx)
	case domain.KindWithdraw:
		return s.repo.Withdraw(ctx, userID, tx)
	default:
		return 0, fmt.Errorf("unknown transaction kind %q", kind)
	}
}
