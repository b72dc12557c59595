package leave

import (
	"context"
	"errors"
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

func (s *Store) CreateRequest(ctx context.Context, req Request) (Request, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leaves (employee_id, leave_type, start_date, end_date, days, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id, created_at
  `, req.EmployeeID, req.LeaveType, req.StartDate, req.EndDate, req.Days, req.Reason, req.Status).Scan(&req.ID, &req.CreatedAt)
	return req, err
}

func scanRequest(row pgx.Row) (Request, error) {
	var r Request
	err := row.Scan(&r.ID, &r.EmployeeID, &r.EmployeeName, &r.LeaveType, &r.StartDate, &r.EndDate,
		&r.Days, &r.Reason, &r.Status, &r.DecidedAt, &r.CreatedAt)
	return r, err
}

func (s *Store) GetRequest(ctx context.Context, id string) (Request, error) {
	r, err := scanRequest(s.DB.QueryRow(ctx, `
    SELECT l.id, l.employee_id, TRIM(e.first_name || ' ' || e.last_name), l.leave_type, l.start_date, l.end_date,
           l.days::float8, l.reason, l.status, l.decided_at, l.created_at
    FROM leaves l
    JOIN employees e ON e.id = l.employee_id
    WHERE l.id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrRequestNotFound
	}
	return r, err
}

func (s *Store) ListRequests(ctx context.Context, filter Filter) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT l.id, l.employee_id, TRIM(e.first_name || ' ' || e.last_name), l.leave_type, l.start_date, l.end_date,
           l.days::float8, l.reason, l.status, l.decided_at, l.created_at
    FROM leaves l
    JOIN employees e ON e.id = l.employee_id
    WHERE ($1 = '' OR l.employee_id::text = $1)
      AND ($2 = '' OR l.status = $2)
    ORDER BY l.created_at DESC
    LIMIT $3 OFFSET $4
  `, filter.EmployeeID, filter.Status, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) DecideRequest(ctx context.Context, id, status string, at time.Time) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE leaves SET status = $1, decided_at = $2
    WHERE id = $3 AND status = 'PENDING'
  `, status, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrInvalidState
	}
	return nil
}

func (s *Store) CountPending(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRow(ctx, `SELECT COUNT(1) FROM leaves WHERE status = 'PENDING'`).Scan(&n)
	return n, err
}

func (s *Store) CreateMission(ctx context.Context, m Mission) (Mission, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO missions (employee_id, destination, purpose, start_date, end_date, status)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id, created_at
  `, m.EmployeeID, m.Destination, m.Purpose, m.StartDate, m.EndDate, m.Status).Scan(&m.ID, &m.CreatedAt)
	return m, err
}

func scanMission(row pgx.Row) (Mission, error) {
	var m Mission
	err := row.Scan(&m.ID, &m.EmployeeID, &m.EmployeeName, &m.Destination, &m.Purpose,
		&m.StartDate, &m.EndDate, &m.Status, &m.DecidedAt, &m.CreatedAt)
	return m, err
}

func (s *Store) GetMission(ctx context.Context, id string) (Mission, error) {
	m, err := scanMission(s.DB.QueryRow(ctx, `
    SELECT m.id, m.employee_id, TRIM(e.first_name || ' ' || e.last_name), m.destination, m.purpose,
           m.start_date, m.end_date, m.status, m.decided_at, m.created_at
    FROM missions m
    JOIN employees e ON e.id = m.employee_id
    WHERE m.id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Mission{}, ErrMissionNotFound
	}
	return m, err
}

func (s *Store) ListMissions(ctx context.Context, filter Filter) ([]Mission, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT m.id, m.employee_id, TRIM(e.first_name || ' ' || e.last_name), m.destination, m.purpose,
           m.start_date, m.end_date, m.status, m.decided_at, m.created_at
    FROM missions m
    JOIN employees e ON e.id = m.employee_id
    WHERE ($1 = '' OR m.employee_id::text = $1)
      AND ($2 = '' OR m.status = $2)
    ORDER BY m.created_at DESC
    LIMIT $3 OFFSET $4
  `, filter.EmployeeID, filter.Status, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) DecideMission(ctx context.Context, id, status string, at time.Time) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE missions SET status = $1, decided_at = $2
    WHERE id = $3 AND status = 'PENDING'
  `, status, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrInvalidState
	}
	return nil
}
