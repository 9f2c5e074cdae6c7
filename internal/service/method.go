package service

import (
	"context"
	"fmt"
	"strings"

	"bankbot/internal/domain"
	"bankbot/internal/repository"
)

// MethodService appends payment methods to user accounts
type MethodService struct {
	repo repository.AccountRepository
}

// NewMethodService creates a new method service
func NewMethodService(repo repository.AccountRepository) *MethodService {
	return &MethodService{repo: repo}
}

// Add builds a payment method description from the user-provided
// detail (bank name, e-mail or wallet address) and appends it to the
// account's method list. The detail is stored as-is apart from
// trimming; format validation is deliberately not performed.
func (s *MethodService) Add(ctx context.Context, userID int64, kind domain.MethodKind, detail string) (domain.PaymentMethod, error) {
	detail = strings.TrimSpace(detail)
	if detail == "" {
		return domain.PaymentMethod{}, domain.ErrEmptyMethodDetail
	}

	label, err := methodLabel(kind)
	if err != nil {
		return domain.PaymentMethod{}, err
	}

	method := domain.PaymentMethod{
		Kind:        kind,
		Description: label + ": " + detail,
	}
	if err := s.repo.AppendMethod(ctx, userID, method); err != nil {
		return domain.PaymentMethod{}, fmt.Errorf("appending payment method: %w", err)
	}
	return method, nil
}

// methodLabel returns the fixed description prefix for a method kind
func methodLabel(kind domain.MethodKind) (string, error) {
	switch kind {
	case domain.MethodBankTransfer:
		return "Bank transfer", nil
	case domain.MethodPayPal:
		return "Paypal", nil
	case domain.MethodCryptoBTC:
		return "BTC", nil
	case domain.MethodCryptoETH:
		return "ETH", nil
	case domain.MethodCryptoUSDT:
		return "USDT", nil
	default:
		return "", fmt.Errorf("unknown payment method kind %q", kind)
	}
}
