package reports

import (
	"context"
	"time"
)

type StoreAPI interface {
	EmployeeCounts(ctx context.Context) (total, active int, err error)
	PresentOn(ctx context.Context, day time.Time) (int, error)
	OpenAlerts(ctx context.Context) (int, error)
	PendingLeaves(ctx context.Context) (int, error)
	LatestBatch(ctx context.Context) (string, float64, error)
	DepartmentPayroll(ctx context.Context) ([]DepartmentPayroll, error)
	ListJobRuns(ctx context.Context, filter JobRunFilter, limit, offset int) ([]JobRun, error)
	CountJobRuns(ctx context.Context, filter JobRunFilter) (int, error)
}

var _ StoreAPI = (*Store)(nil)
