package repository

import (
	"context"

	"bankbot/internal/domain"
)

// AccountRepository defines durable per-user ledger operations.
// Deposit and Withdraw update the balance and the last-transaction
// summary in a single statement; Withdraw is conditional on the
// balance covering the amount and returns
// domain.ErrInsufficientBalance when it does not.
type AccountRepository interface {
	GetAccount(ctx context.Context, userID int64) (*domain.Account, error)
	CreateAccount(ctx context.Context, userID int64) error
	SetLocale(ctx context.Context, userID int64, locale domain.Locale) error
	Deposit(ctx context.Context, userID int64, tx domain.Transaction) (int64, error)
	Withdraw(ctx context.Context, userID int64, tx domain.Transaction) (int64, error)
	AppendMethod(ctx context.Context, userID int64, method domain.PaymentMethod) error
}
