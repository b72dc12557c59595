package payroll

import (
	"context"

	"hrdash/internal/domain/bank"
	"hrdash/internal/domain/core"
)

type StoreAPI interface {
	CreateBatch(ctx context.Context, name string, employeeCount int) (Batch, error)
	InsertRecords(ctx context.Context, records []Record) error
	BatchTotals(ctx context.Context, batchID string) (int, float64, error)
	UpdateBatchTotals(ctx context.Context, batchID string, count int, total float64) error
	GetBatch(ctx context.Context, batchID string) (Batch, error)
	ListBatches(ctx context.Context, limit, offset int) ([]Batch, error)
	DeleteBatch(ctx context.Context, batchID string) error
	ListRecords(ctx context.Context, batchID string) ([]Record, error)
	Recalculate(ctx context.Context, batchID string) error
	SetBatchStatus(ctx context.Context, batchID, status string) error
	MarkBatchPaid(ctx context.Context, batchID string) (int64, error)
	BatchUserIDs(ctx context.Context, batchID string) ([]string, error)
	RecentTransfers(ctx context.Context, limit int) ([]TransferRow, error)
	DeleteAllRecords(ctx context.Context) (int64, error)
	DeleteAllBatches(ctx context.Context) (int64, error)
}

// EmployeeSource is satisfied by core.Service.
type EmployeeSource interface {
	CountEmployees(ctx context.Context) (int, error)
	ListEmployees(ctx context.Context) ([]core.Employee, error)
}

// BankDirectory is satisfied by bank.Service.
type BankDirectory interface {
	DefaultSnapshots(ctx context.Context) (map[string]bank.Snapshot, error)
}

// Notifier is satisfied by notifications.Service.
type Notifier interface {
	Notify(ctx context.Context, userID, kind, title, body string) error
}

var _ StoreAPI = (*Store)(nil)
