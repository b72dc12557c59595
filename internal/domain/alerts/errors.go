package alerts

import "errors"

var (
	ErrAlertNotFound   = errors.New("alert not found")
	ErrInvalidSeverity = errors.New("invalid severity")
	ErrTypeRequired    = errors.New("alert type is required")
)
