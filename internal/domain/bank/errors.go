package bank

import "errors"

var (
	ErrInvalidIBAN     = errors.New("iban must match EG + 2 digits + 29 alphanumerics")
	ErrAccountNotFound = errors.New("bank account not found")
	ErrBankNameMissing = errors.New("bank name is required")
)
