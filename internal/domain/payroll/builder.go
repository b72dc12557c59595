package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"hrdash/internal/domain/bank"
	"hrdash/internal/domain/core"
)

// Builder snapshots the active workforce into a new DRAFT batch.
type Builder struct {
	Store     StoreAPI
	Employees EmployeeSource
	Banks     BankDirectory
	ChunkSize int
}

func NewBuilder(store StoreAPI, employees EmployeeSource, banks BankDirectory, chunkSize int) *Builder {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Builder{Store: store, Employees: employees, Banks: banks, ChunkSize: chunkSize}
}

// CreateBatch inserts the batch header first with employee_count set to the
// whole workforce, then one zeroed line per active employee in chunks. A
// failed chunk does not stop later chunks; the batch totals are patched from
// whatever rows actually landed.
func (b *Builder) CreateBatch(ctx context.Context, name string) (BuildResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return BuildResult{}, ErrBatchNameRequired
	}
	total, err := b.Employees.CountEmployees(ctx)
	if err != nil {
		return BuildResult{}, err
	}
	employees, err := b.Employees.ListEmployees(ctx)
	if err != nil {
		return BuildResult{}, err
	}
	snapshots := map[string]bank.Snapshot{}
	if b.Banks != nil {
		snapshots, err = b.Banks.DefaultSnapshots(ctx)
		if err != nil {
			return BuildResult{}, err
		}
	}

	batch, err := b.Store.CreateBatch(ctx, name, total)
	if err != nil {
		return BuildResult{}, err
	}

	lines := buildLines(batch.ID, employees, snapshots)
	result := BuildResult{Batch: batch, Planned: len(lines)}
	var failed []string
	for i, start := 0, 0; start < len(lines); i, start = i+1, start+b.ChunkSize {
		end := min(start+b.ChunkSize, len(lines))
		chunk := ChunkResult{Index: i, Size: end - start}
		if err := b.Store.InsertRecords(ctx, lines[start:end]); err != nil {
			slog.Warn("payroll chunk insert failed", "batchId", batch.ID, "chunk", i, "size", chunk.Size, "err", err)
			chunk.Err = err
			chunk.Error = err.Error()
			failed = append(failed, fmt.Sprintf("chunk %d: %v", i, err))
		} else {
			chunk.Inserted = chunk.Size
		}
		result.Chunks = append(result.Chunks, chunk)
	}
	if len(failed) > 0 {
		result.Warning = fmt.Sprintf("%d of %d chunks failed to insert: %s",
			len(failed), len(result.Chunks), strings.Join(failed, "; "))
	}

	count, sum, err := b.patchTotals(ctx, batch.ID)
	if err != nil {
		if result.Warning != "" {
			return result, fmt.Errorf("%w: batch %s (%s): %w", ErrTotalsNotPatched, batch.ID, result.Warning, err)
		}
		return result, fmt.Errorf("%w: batch %s: %w", ErrTotalsNotPatched, batch.ID, err)
	}
	result.Batch.EmployeeCount = count
	result.Batch.TotalAmount = sum
	return result, nil
}

// patchTotals re-reads the persisted lines and writes them onto the header,
// trying once more before giving up.
func (b *Builder) patchTotals(ctx context.Context, batchID string) (int, float64, error) {
	var err error
	for attempt := range 2 {
		var count int
		var sum float64
		count, sum, err = b.Store.BatchTotals(ctx, batchID)
		if err == nil {
			err = b.Store.UpdateBatchTotals(ctx, batchID, count, sum)
		}
		if err == nil {
			return count, sum, nil
		}
		slog.Warn("payroll batch totals patch failed", "batchId", batchID, "attempt", attempt+1, "err", err)
	}
	return 0, 0, err
}

func buildLines(batchID string, employees []core.Employee, snapshots map[string]bank.Snapshot) []Record {
	lines := make([]Record, 0, len(employees))
	for _, emp := range employees {
		if !emp.IsActive() {
			continue
		}
		line := Record{
			BatchID:       batchID,
			EmployeeID:    emp.ID,
			EmployeeName:  emp.FullName(),
			BasicSalary:   emp.BasicSalary,
			NetSalary:     ComputeNet(emp.BasicSalary, 0, 0),
			PaymentStatus: PaymentStatusPending,
		}
		if snap, ok := snapshots[emp.ID]; ok {
			line.BankAccount = &snap
		}
		lines = append(lines, line)
	}
	return lines
}
