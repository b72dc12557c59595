package core

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrDuplicateEmail   = errors.New("employee email already exists")
	ErrShiftNotFound    = errors.New("shift not found")
)
