package tasks

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"hrdash/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const taskColumns = `id, title, description, COALESCE(assigned_to::text, ''), COALESCE(created_by::text, ''),
           status, priority, due_date, created_at, updated_at`

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.AssignedTo, &t.CreatedBy,
		&t.Status, &t.Priority, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (s *Store) Create(ctx context.Context, t Task) (Task, error) {
	return scanTask(s.DB.QueryRow(ctx, `
    INSERT INTO tasks (title, description, assigned_to, created_by, status, priority, due_date)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    RETURNING `+taskColumns,
		t.Title, t.Description, nullIfEmpty(t.AssignedTo), nullIfEmpty(t.CreatedBy), t.Status, t.Priority, t.DueDate))
}

func (s *Store) Get(ctx context.Context, id string) (Task, error) {
	t, err := scanTask(s.DB.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, ErrTaskNotFound
	}
	return t, err
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Task, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+taskColumns+`
    FROM tasks
    WHERE ($1 = '' OR assigned_to::text = $1)
      AND ($2 = '' OR status = $2)
    ORDER BY created_at DESC
    LIMIT $3 OFFSET $4
  `, filter.AssignedTo, string(filter.Status), filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) Update(ctx context.Context, t Task) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE tasks
    SET title = $1, description = $2, assigned_to = $3, priority = $4, due_date = $5, updated_at = now()
    WHERE id = $6
  `, t.Title, t.Description, nullIfEmpty(t.AssignedTo), t.Priority, t.DueDate, t.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *Store) SetStatus(ctx context.Context, id string, status Status) error {
	cmd, err := s.DB.Exec(ctx, `UPDATE tasks SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *Store) AddComment(ctx context.Context, c Comment) (Comment, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO task_comments (task_id, employee_id, body)
    VALUES ($1, $2, $3)
    RETURNING id, created_at
  `, c.TaskID, c.EmployeeID, c.Body).Scan(&c.ID, &c.CreatedAt)
	return c, err
}

func (s *Store) ListComments(ctx context.Context, taskID string) ([]Comment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT c.id, c.task_id, c.employee_id, TRIM(e.first_name || ' ' || e.last_name), c.body, c.created_at
    FROM task_comments c
    JOIN employees e ON e.id = c.employee_id
    WHERE c.task_id = $1
    ORDER BY c.created_at ASC
  `, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.EmployeeID, &c.AuthorName, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
