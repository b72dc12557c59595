package attendance

import (
	"context"
	"time"
)

type StoreAPI interface {
	InsertLog(ctx context.Context, log Log) (string, error)
	ListLogs(ctx context.Context, employeeID string, since time.Time, limit int) ([]Log, error)
	CountPresentOn(ctx context.Context, day time.Time) (int, error)
}

// ShiftResolver yields the shift bounds for an employee.
type ShiftResolver interface {
	ShiftWindow(ctx context.Context, employeeID string) (string, string, error)
}

var _ StoreAPI = (*Store)(nil)
