package service

import (
	"context"
	"fmt"
	"testing"

	"bankbot/internal/domain"
	"bankbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAccountService_EnsureAccount_Existing(t *testing.T) {
	mockRepo := new(testutil.MockAccountRepository)
	existing := testutil.NewTestAccount(123, 50, domain.LocaleEnglish)
	mockRepo.On("GetAccount", mock.Anything, int64(123)).Return(existing, nil)

	svc := NewAccountService(mockRepo)

	account, err := svc.EnsureAccount(context.Background(), 123)

	assert.NoError(t, err)
	assert.Equal(t, existing, account)
	mockRepo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestAccountService_EnsureAccount_CreatesDefault(t *testing.T) {
	mockRepo := new(testutil.MockAccountRepository)
	created := testutil.NewTestAccount(456, 0, "")

	mockRepo.On("GetAccount", mock.Anything, int64(456)).Return(nil, domain.ErrAccountNotFound).Once()
	mockRepo.On("CreateAccount", mock.Anything, int64(456)).Return(nil)
	mockRepo.On("GetAccount", mock.Anything, int64(456)).Return(created, nil).Once()

	svc := NewAccountService(mockRepo)

	account, err := svc.EnsureAccount(context.Background(), 456)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), account.Balance)
	assert.False(t, account.HasLocale())
	mockRepo.AssertExpectations(t)
}

func TestAccountService_EnsureAccount_StoreError(t *testing.T) {
	mockRepo := new(testutil.MockAccountRepository)
	mockRepo.On("GetAccount", mock.Anything, int64(789)).Return(nil, fmt.Errorf("connection refused"))

	svc := NewAccountService(mockRepo)

	account, err := svc.EnsureAccount(context.Background(), 789)

	assert.Error(t, err)
	assert.Nil(t, account)
	mockRepo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
}

func TestAccountService_SetLocale(t *testing.T) {
	tests := []struct {
		name          string
		locale        domain.Locale
		expectCall    bool
		expectedError bool
	}{
		{
			name:       "english",
			locale:     domain.LocaleEnglish,
			expectCall: true,
		},
		{
			name:       "portuguese",
			locale:     domain.LocalePortuguese,
			expectCall: true,
		},
		{
			name:          "unsupported locale",
			locale:        "de",
			expectCall:    false,
			expectedError: true,
		},
		{
			name:          "empty locale",
			locale:        "",
			expectCall:    false,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockAccountRepository)
			if tt.expectCall {
				mockRepo.On("SetLocale", mock.Anything, int64(123), tt.locale).Return(nil)
			}

			svc := NewAccountService(mockRepo)

			err := svc.SetLocale(context.Background(), 123, tt.locale)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}
