package alerts

import (
	"context"

	"github.com/jackc/pgx/v5"

	"hrdash/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func scanAlert(row pgx.Row) (Alert, error) {
	var a Alert
	err := row.Scan(&a.ID, &a.EmployeeID, &a.EmployeeName, &a.Type, &a.Severity, &a.Message,
		&a.IsRead, &a.IsResolved, &a.CreatedAt, &a.ResolvedAt)
	return a, err
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Alert, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, COALESCE(employee_id::text, ''), employee_name, alert_type, severity, message,
           is_read, is_resolved, created_at, resolved_at
    FROM security_alerts
    WHERE ($1 OR is_resolved = false)
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, filter.IncludeResolved, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, alert Alert) (Alert, error) {
	return scanAlert(s.DB.QueryRow(ctx, `
    INSERT INTO security_alerts (employee_id, employee_name, alert_type, severity, message)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, COALESCE(employee_id::text, ''), employee_name, alert_type, severity, message,
              is_read, is_resolved, created_at, resolved_at
  `, nullIfEmpty(alert.EmployeeID), alert.EmployeeName, alert.Type, alert.Severity, alert.Message))
}

func (s *Store) MarkRead(ctx context.Context, id string) error {
	cmd, err := s.DB.Exec(ctx, `UPDATE security_alerts SET is_read = true WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAlertNotFound
	}
	return nil
}

func (s *Store) Resolve(ctx context.Context, id string) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE security_alerts
    SET is_resolved = true, is_read = true, resolved_at = COALESCE(resolved_at, now())
    WHERE id = $1
  `, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAlertNotFound
	}
	return nil
}

func (s *Store) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRow(ctx, `SELECT COUNT(1) FROM security_alerts WHERE is_resolved = false`).Scan(&n)
	return n, err
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
