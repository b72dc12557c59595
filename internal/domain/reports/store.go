package reports

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"hrdash/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) EmployeeCounts(ctx context.Context) (int, int, error) {
	var total, active int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1),
           COUNT(1) FILTER (WHERE status IS NULL OR TRIM(status) IN ('', 'Active', 'ACTIVE'))
    FROM employees
  `).Scan(&total, &active)
	return total, active, err
}

func (s *Store) PresentOn(ctx context.Context, day time.Time) (int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	var n int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(DISTINCT employee_id)
    FROM attendance_logs
    WHERE logged_at >= $1 AND logged_at < $2
  `, start, start.AddDate(0, 0, 1)).Scan(&n)
	return n, err
}

func (s *Store) OpenAlerts(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM security_alerts WHERE is_resolved = false").Scan(&n)
	return n, err
}

func (s *Store) PendingLeaves(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leaves WHERE status = 'PENDING'").Scan(&n)
	return n, err
}

func (s *Store) LatestBatch(ctx context.Context) (string, float64, error) {
	var name string
	var total float64
	err := s.DB.QueryRow(ctx, `
    SELECT name, total_amount::float8
    FROM payroll_batches
    ORDER BY created_at DESC
    LIMIT 1
  `).Scan(&name, &total)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", 0, nil
	}
	return name, total, err
}

func (s *Store) DepartmentPayroll(ctx context.Context) ([]DepartmentPayroll, error) {
	rows, err := s.DB.Query(ctx, `
    WITH latest AS (
      SELECT DISTINCT ON (employee_id) employee_id, basic_salary, deductions, net_salary
      FROM payroll_records
      ORDER BY employee_id, created_at DESC
    )
    SELECT COALESCE(d.name, ''), COUNT(1), SUM(l.basic_salary)::float8, SUM(l.net_salary)::float8, SUM(l.deductions)::float8
    FROM latest l
    JOIN employees e ON e.id = l.employee_id
    LEFT JOIN departments d ON d.id = e.department_id
    GROUP BY d.name
    ORDER BY d.name NULLS LAST
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DepartmentPayroll
	for rows.Next() {
		var row DepartmentPayroll
		if err := rows.Scan(&row.Department, &row.Employees, &row.TotalBasic, &row.TotalNet, &row.TotalDeduct); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) ListJobRuns(ctx context.Context, filter JobRunFilter, limit, offset int) ([]JobRun, error) {
	query, args := buildJobRunsBaseQuery(filter)
	query += " ORDER BY started_at DESC LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []JobRun
	for rows.Next() {
		var run JobRun
		var detailsRaw []byte
		if err := rows.Scan(&run.ID, &run.JobType, &run.Status, &detailsRaw, &run.StartedAt, &run.CompletedAt); err != nil {
			return nil, err
		}
		run.Details = decodeDetails(detailsRaw)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *Store) CountJobRuns(ctx context.Context, filter JobRunFilter) (int, error) {
	query, args := buildJobRunsBaseQuery(filter)
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM ("+query+") job_runs", args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func buildJobRunsBaseQuery(filter JobRunFilter) (string, []any) {
	query := `
    SELECT id, job_type, status, COALESCE(details_json, '{}'::jsonb), started_at, completed_at
    FROM job_runs
    WHERE true
  `
	var args []any

	if value := strings.TrimSpace(filter.JobType); value != "" {
		query += " AND job_type = $" + strconv.Itoa(len(args)+1)
		args = append(args, value)
	}
	if value := strings.TrimSpace(filter.Status); value != "" {
		query += " AND status = $" + strconv.Itoa(len(args)+1)
		args = append(args, value)
	}
	if filter.StartedFrom != nil && !filter.StartedFrom.IsZero() {
		query += " AND started_at >= $" + strconv.Itoa(len(args)+1)
		args = append(args, *filter.StartedFrom)
	}
	if filter.StartedTo != nil && !filter.StartedTo.IsZero() {
		query += " AND started_at <= $" + strconv.Itoa(len(args)+1)
		args = append(args, *filter.StartedTo)
	}

	return query, args
}

func decodeDetails(raw []byte) map[string]any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	details := map[string]any{}
	if err := json.Unmarshal(raw, &details); err != nil {
		return map[string]any{
			"raw": string(raw),
		}
	}
	return details
}
