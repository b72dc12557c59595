package payroll

import (
	"context"
	"errors"
	"time"

	"hrdash/internal/domain/bank"
	"hrdash/internal/domain/core"
)

type memStore struct {
	StoreAPI
	batches      map[string]Batch
	records      []Record
	insertCalls  int
	failChunks   map[int]bool
	transfers    []TransferRow
	userIDs      []string
	recalculated []string
	failBatchDel error
}

func newMemStore() *memStore {
	return &memStore{batches: map[string]Batch{}, failChunks: map[int]bool{}}
}

func (m *memStore) CreateBatch(_ context.Context, name string, employeeCount int) (Batch, error) {
	b := Batch{ID: "b1", Name: name, EmployeeCount: employeeCount, Status: BatchStatusDraft, CreatedAt: time.Now()}
	m.batches[b.ID] = b
	return b, nil
}

func (m *memStore) InsertRecords(_ context.Context, records []Record) error {
	call := m.insertCalls
	m.insertCalls++
	if m.failChunks[call] {
		return errors.New("connection reset")
	}
	m.records = append(m.records, records...)
	return nil
}

func (m *memStore) BatchTotals(_ context.Context, batchID string) (int, float64, error) {
	count, total := 0, 0.0
	for _, r := range m.records {
		if r.BatchID == batchID {
			count++
			total += r.NetSalary
		}
	}
	return count, total, nil
}

func (m *memStore) UpdateBatchTotals(_ context.Context, batchID string, count int, total float64) error {
	b, ok := m.batches[batchID]
	if !ok {
		return ErrBatchNotFound
	}
	b.EmployeeCount = count
	b.TotalAmount = total
	m.batches[batchID] = b
	return nil
}

func (m *memStore) GetBatch(_ context.Context, batchID string) (Batch, error) {
	b, ok := m.batches[batchID]
	if !ok {
		return Batch{}, ErrBatchNotFound
	}
	return b, nil
}

func (m *memStore) Recalculate(_ context.Context, batchID string) error {
	m.recalculated = append(m.recalculated, batchID)
	return nil
}

func (m *memStore) SetBatchStatus(_ context.Context, batchID, status string) error {
	b, ok := m.batches[batchID]
	if !ok {
		return ErrBatchNotFound
	}
	b.Status = status
	m.batches[batchID] = b
	return nil
}

func (m *memStore) MarkBatchPaid(ctx context.Context, batchID string) (int64, error) {
	var n int64
	for i := range m.records {
		if m.records[i].BatchID == batchID {
			m.records[i].PaymentStatus = PaymentStatusPaid
			n++
		}
	}
	return n, m.SetBatchStatus(ctx, batchID, BatchStatusPaid)
}

func (m *memStore) BatchUserIDs(context.Context, string) ([]string, error) {
	return m.userIDs, nil
}

func (m *memStore) RecentTransfers(_ context.Context, limit int) ([]TransferRow, error) {
	if len(m.transfers) > limit {
		return m.transfers[:limit], nil
	}
	return m.transfers, nil
}

func (m *memStore) DeleteAllRecords(context.Context) (int64, error) {
	n := int64(len(m.records))
	m.records = nil
	return n, nil
}

func (m *memStore) DeleteAllBatches(context.Context) (int64, error) {
	if m.failBatchDel != nil {
		return 0, m.failBatchDel
	}
	n := int64(len(m.batches))
	m.batches = map[string]Batch{}
	return n, nil
}

type fakeEmployees struct {
	list []core.Employee
}

func (f fakeEmployees) CountEmployees(context.Context) (int, error) { return len(f.list), nil }

func (f fakeEmployees) ListEmployees(context.Context) ([]core.Employee, error) { return f.list, nil }

type fakeBanks map[string]bank.Snapshot

func (f fakeBanks) DefaultSnapshots(context.Context) (map[string]bank.Snapshot, error) {
	return f, nil
}

type fakeNotifier struct {
	sent []string
	fail map[string]bool
}

func (f *fakeNotifier) Notify(_ context.Context, userID, kind, _, _ string) error {
	if f.fail[userID] {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, userID+":"+kind)
	return nil
}
