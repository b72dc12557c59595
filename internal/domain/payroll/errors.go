package payroll

import "errors"

var (
	ErrBatchNotFound        = errors.New("payroll batch not found")
	ErrBatchNameRequired    = errors.New("batch name is required")
	ErrConfirmationRequired = errors.New("both confirmations are required to delete all payroll data")
	ErrBatchAlreadyPaid     = errors.New("payroll batch is already paid")
	ErrTotalsNotPatched     = errors.New("payroll batch totals not patched, run recompute")
)
