package integrity

import (
	"context"

	"hrdash/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) Subjects(ctx context.Context) ([]Subject, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, TRIM(first_name || ' ' || last_name)
    FROM employees
    ORDER BY first_name, last_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Subject
	for rows.Next() {
		var sub Subject
		if err := rows.Scan(&sub.ID, &sub.Name); err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *Store) AlertRefs(ctx context.Context) ([]AlertRef, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT COALESCE(employee_id::text, ''), employee_name
    FROM security_alerts
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AlertRef
	for rows.Next() {
		var ref AlertRef
		if err := rows.Scan(&ref.EmployeeID, &ref.EmployeeName); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

func (s *Store) Upsert(ctx context.Context, entry Entry) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO integrity_scores (employee_id, score, violation_count, tier, updated_at)
    VALUES ($1, $2, $3, $4, now())
    ON CONFLICT (employee_id) DO UPDATE
    SET score = EXCLUDED.score,
        violation_count = EXCLUDED.violation_count,
        tier = EXCLUDED.tier,
        updated_at = EXCLUDED.updated_at
  `, entry.EmployeeID, entry.Score, entry.ViolationCount, entry.Tier)
	return err
}

func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT i.employee_id, TRIM(e.first_name || ' ' || e.last_name), i.score, i.violation_count, i.tier, i.updated_at
    FROM integrity_scores i
    JOIN employees e ON e.id = i.employee_id
    ORDER BY i.score ASC, e.first_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.EmployeeID, &e.EmployeeName, &e.Score, &e.ViolationCount, &e.Tier, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
