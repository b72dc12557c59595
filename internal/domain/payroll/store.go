package payroll

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"hrdash/internal/domain/bank"
	"hrdash/internal/platform/querier"
)

type Store struct {
	DB querier.Batcher
}

func NewStore(db querier.Batcher) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateBatch(ctx context.Context, name string, employeeCount int) (Batch, error) {
	var b Batch
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_batches (name, total_amount, employee_count, status)
    VALUES ($1, 0, $2, $3)
    RETURNING id, name, total_amount::float8, employee_count, status, created_at
  `, name, employeeCount, BatchStatusDraft).Scan(&b.ID, &b.Name, &b.TotalAmount, &b.EmployeeCount, &b.Status, &b.CreatedAt)
	return b, err
}

// InsertRecords sends one chunk as a single pipelined batch. The batch runs
// in an implicit transaction, so a chunk either lands whole or not at all.
func (s *Store) InsertRecords(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rec := range records {
		var snapshot []byte
		if rec.BankAccount != nil {
			encoded, err := json.Marshal(rec.BankAccount)
			if err != nil {
				return err
			}
			snapshot = encoded
		}
		batch.Queue(`
    INSERT INTO payroll_records (batch_id, employee_id, basic_salary, allowances, deductions, net_salary, payment_status, bank_account)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, rec.BatchID, rec.EmployeeID, rec.BasicSalary, rec.Allowances, rec.Deductions, rec.NetSalary, rec.PaymentStatus, snapshot)
	}
	return s.DB.SendBatch(ctx, batch).Close()
}

func (s *Store) BatchTotals(ctx context.Context, batchID string) (int, float64, error) {
	var count int
	var total float64
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1), COALESCE(SUM(net_salary), 0)::float8
    FROM payroll_records
    WHERE batch_id = $1
  `, batchID).Scan(&count, &total)
	return count, total, err
}

func (s *Store) UpdateBatchTotals(ctx context.Context, batchID string, count int, total float64) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE payroll_batches
    SET employee_count = $1, total_amount = $2
    WHERE id = $3
  `, count, total, batchID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBatchNotFound
	}
	return nil
}

func (s *Store) GetBatch(ctx context.Context, batchID string) (Batch, error) {
	var b Batch
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, total_amount::float8, employee_count, status, created_at
    FROM payroll_batches
    WHERE id = $1
  `, batchID).Scan(&b.ID, &b.Name, &b.TotalAmount, &b.EmployeeCount, &b.Status, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Batch{}, ErrBatchNotFound
	}
	return b, err
}

func (s *Store) ListBatches(ctx context.Context, limit, offset int) ([]Batch, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, total_amount::float8, employee_count, status, created_at
    FROM payroll_batches
    ORDER BY created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Batch
	for rows.Next() {
		var b Batch
		if err := rows.Scan(&b.ID, &b.Name, &b.TotalAmount, &b.EmployeeCount, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) DeleteBatch(ctx context.Context, batchID string) error {
	cmd, err := s.DB.Exec(ctx, `DELETE FROM payroll_batches WHERE id = $1`, batchID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBatchNotFound
	}
	return nil
}

func (s *Store) ListRecords(ctx context.Context, batchID string) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.id, r.batch_id, r.employee_id, TRIM(e.first_name || ' ' || e.last_name),
           r.basic_salary::float8, r.allowances::float8, r.deductions::float8, r.net_salary::float8,
           r.payment_status, r.bank_account, r.created_at
    FROM payroll_records r
    JOIN employees e ON e.id = r.employee_id
    WHERE r.batch_id = $1
    ORDER BY e.last_name, e.first_name
  `, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var rec Record
		var snapshot []byte
		if err := rows.Scan(&rec.ID, &rec.BatchID, &rec.EmployeeID, &rec.EmployeeName,
			&rec.BasicSalary, &rec.Allowances, &rec.Deductions, &rec.NetSalary,
			&rec.PaymentStatus, &snapshot, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.BankAccount = decodeSnapshot(snapshot)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) Recalculate(ctx context.Context, batchID string) error {
	_, err := s.DB.Exec(ctx, `SELECT recalculate_batch_deductions($1)`, batchID)
	return err
}

func (s *Store) SetBatchStatus(ctx context.Context, batchID, status string) error {
	cmd, err := s.DB.Exec(ctx, `UPDATE payroll_batches SET status = $1 WHERE id = $2`, status, batchID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBatchNotFound
	}
	return nil
}

func (s *Store) MarkBatchPaid(ctx context.Context, batchID string) (int64, error) {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE payroll_records SET payment_status = $1 WHERE batch_id = $2
  `, PaymentStatusPaid, batchID)
	if err != nil {
		return 0, err
	}
	if err := s.SetBatchStatus(ctx, batchID, BatchStatusPaid); err != nil {
		return cmd.RowsAffected(), err
	}
	return cmd.RowsAffected(), nil
}

func (s *Store) BatchUserIDs(ctx context.Context, batchID string) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT DISTINCT e.user_id::text
    FROM payroll_records r
    JOIN employees e ON e.id = r.employee_id
    WHERE r.batch_id = $1 AND e.user_id IS NOT NULL
  `, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *Store) RecentTransfers(ctx context.Context, limit int) ([]TransferRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.id, r.batch_id, r.employee_id, TRIM(COALESCE(e.first_name, '') || ' ' || COALESCE(e.last_name, '')),
           r.net_salary::float8, r.payment_status, r.bank_account, r.created_at
    FROM payroll_records r
    LEFT JOIN employees e ON e.id = r.employee_id
    ORDER BY r.created_at DESC
    LIMIT $1
  `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TransferRow
	for rows.Next() {
		var row TransferRow
		var snapshot []byte
		if err := rows.Scan(&row.RecordID, &row.BatchID, &row.EmployeeID, &row.EmployeeName,
			&row.NetSalary, &row.PaymentStatus, &snapshot, &row.CreatedAt); err != nil {
			return nil, err
		}
		row.BankAccount = decodeSnapshot(snapshot)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) DeleteAllRecords(ctx context.Context) (int64, error) {
	cmd, err := s.DB.Exec(ctx, `DELETE FROM payroll_records`)
	return cmd.RowsAffected(), err
}

func (s *Store) DeleteAllBatches(ctx context.Context) (int64, error) {
	cmd, err := s.DB.Exec(ctx, `DELETE FROM payroll_batches`)
	return cmd.RowsAffected(), err
}

func decodeSnapshot(raw []byte) *bank.Snapshot {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var snap bank.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil
	}
	return &snap
}
