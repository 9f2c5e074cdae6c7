package domain

import (
	"time"

	"github.com/google/uuid"
)

// Locale is the user's interface language, chosen on first contact
type Locale string

const (
	LocaleEnglish    Locale = "en"
	LocalePortuguese Locale = "pt"
)

// TransactionKind distinguishes balance mutations
type TransactionKind string

const (
	KindDeposit  TransactionKind = "deposit"
	KindWithdraw TransactionKind = "withdraw"
)

// Transaction is the last completed balance mutation on an account
type Transaction struct {
	ID        uuid.UUID
	Kind      TransactionKind
	Amount    int64
	Method    string
	CreatedAt time.Time
}

// Account represents a durable per-user ledger record.
// Balance is kept in whole currency units and never goes negative
// through a successful withdrawal. Locale stays empty until chosen.
type Account struct {
	UserID          int64
	Balance         int64
	Locale          Locale
	LastTransaction *Transaction
	Methods         []PaymentMethod
	CreatedAt       time.Time
}

// HasLocale reports whether the user already picked a language
func (a *Account) HasLocale() bool {
	return a.Locale != ""
}
