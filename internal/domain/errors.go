package domain

import "errors"

var (
	// ErrAccountNotFound is returned when no account exists for a user id
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientBalance is returned when a withdrawal exceeds the
	// current balance; the balance is left untouched
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrEmptyMethodDetail is returned when a payment method detail is
	// blank after trimming whitespace
	ErrEmptyMethodDetail = errors.New("payment method detail is empty")
)
