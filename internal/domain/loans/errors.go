package loans

import "errors"

var (
	ErrInvalidAmount      = errors.New("loan amount must be positive")
	ErrInvalidInstallment = errors.New("installment must be positive and not exceed the amount")
)
