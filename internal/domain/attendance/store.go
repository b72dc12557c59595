package attendance

import (
	"context"
	"time"

	"hrdash/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) InsertLog(ctx context.Context, log Log) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance_logs (employee_id, reference_id, log_type, status, location_verified, shift_start, shift_end, logged_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, log.EmployeeID, log.ReferenceID, string(log.LogType), log.Status, log.LocationVerified, log.ShiftStart, log.ShiftEnd, log.LoggedAt).Scan(&id)
	return id, err
}

// ListLogs returns newest first. An empty employeeID lists everyone.
func (s *Store) ListLogs(ctx context.Context, employeeID string, since time.Time, limit int) ([]Log, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, reference_id, log_type, status, location_verified, shift_start, shift_end, logged_at
    FROM attendance_logs
    WHERE ($1 = '' OR employee_id::text = $1) AND logged_at >= $2
    ORDER BY logged_at DESC
    LIMIT $3
  `, employeeID, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Log
	for rows.Next() {
		var l Log
		var logType string
		if err := rows.Scan(&l.ID, &l.EmployeeID, &l.ReferenceID, &logType, &l.Status, &l.LocationVerified, &l.ShiftStart, &l.ShiftEnd, &l.LoggedAt); err != nil {
			return nil, err
		}
		l.LogType = LogType(logType)
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) CountPresentOn(ctx context.Context, day time.Time) (int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(DISTINCT employee_id)
    FROM attendance_logs
    WHERE log_type = $1 AND logged_at >= $2 AND logged_at < $3
  `, string(LogCheckIn), start, start.AddDate(0, 0, 1)).Scan(&count)
	return count, err
}
