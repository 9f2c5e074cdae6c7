package testutil

import (
	"time"

	"bankbot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestAccount creates a test account
func NewTestAccount(userID int64, balance int64, locale domain.Locale, methods ...domain.PaymentMethod) *domain.Account {
	return &domain.Account{
		UserID:    userID,
		Balance:   balance,
		Locale:    locale,
		Methods:   methods,
		CreatedAt: time.Now(),
	}
}

// NewTestMethod creates a test payment method
func NewTestMethod(kind domain.MethodKind, description string) domain.PaymentMethod {
	return domain.PaymentMethod{Kind: kind, Description: description}
}
