package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrdash/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
           e.id,
           COALESCE(e.user_id::text, ''),
           e.first_name, e.last_name, e.email, e.phone, e.job_title,
           COALESCE(e.department_id::text, ''), COALESCE(d.name, ''),
           COALESCE(e.branch_id::text, ''), COALESCE(b.name, ''),
           COALESCE(e.shift_id::text, ''),
           e.basic_salary::float8, e.hire_date, COALESCE(e.status, ''),
           e.created_at, e.updated_at
    FROM employees e
    LEFT JOIN departments d ON d.id = e.department_id
    LEFT JOIN branches b ON b.id = e.branch_id`

func scanEmployee(row pgx.Row) (*Employee, error) {
	var emp Employee
	if err := row.Scan(
		&emp.ID, &emp.UserID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Phone, &emp.JobTitle,
		&emp.DepartmentID, &emp.DepartmentName, &emp.BranchID, &emp.BranchName, &emp.ShiftID,
		&emp.BasicSalary, &emp.HireDate, &emp.Status, &emp.CreatedAt, &emp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &emp, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+employeeColumns+`
    ORDER BY e.last_name, e.first_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *emp)
	}
	return out, rows.Err()
}

func (s *Store) CountEmployees(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `SELECT COUNT(1) FROM employees`).Scan(&count)
	return count, err
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (*Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `SELECT `+employeeColumns+`
    WHERE e.id = $1
  `, employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEmployeeNotFound
	}
	return emp, err
}

func (s *Store) GetEmployeeByEmail(ctx context.Context, email string) (*Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, `SELECT `+employeeColumns+`
    WHERE lower(e.email) = lower($1)
  `, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEmployeeNotFound
	}
	return emp, err
}

func (s *Store) CreateEmployee(ctx context.Context, emp Employee) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (user_id, first_name, last_name, email, phone, job_title,
      department_id, branch_id, shift_id, basic_salary, hire_date, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id
  `,
		nullIfEmpty(emp.UserID), emp.FirstName, emp.LastName, emp.Email, emp.Phone, emp.JobTitle,
		nullIfEmpty(emp.DepartmentID), nullIfEmpty(emp.BranchID), nullIfEmpty(emp.ShiftID),
		emp.BasicSalary, emp.HireDate, nullIfEmpty(emp.Status),
	).Scan(&id)
	if isUniqueViolation(err) {
		return "", ErrDuplicateEmail
	}
	return id, err
}

func (s *Store) UpdateEmployee(ctx context.Context, employeeID string, emp Employee) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET first_name = $1,
        last_name = $2,
        email = $3,
        phone = $4,
        job_title = $5,
        department_id = $6,
        branch_id = $7,
        shift_id = $8,
        basic_salary = $9,
        hire_date = $10,
        status = $11,
        updated_at = now()
    WHERE id = $12
  `,
		emp.FirstName, emp.LastName, emp.Email, emp.Phone, emp.JobTitle,
		nullIfEmpty(emp.DepartmentID), nullIfEmpty(emp.BranchID), nullIfEmpty(emp.ShiftID),
		emp.BasicSalary, emp.HireDate, nullIfEmpty(emp.Status), employeeID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *Store) SetEmployeeStatus(ctx context.Context, employeeID, status string) error {
	cmd, err := s.DB.Exec(ctx, `
    UPDATE employees SET status = $1, updated_at = now() WHERE id = $2
  `, status, employeeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `SELECT id, name, created_at FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CreateDepartment is idempotent on name and returns the existing id.
func (s *Store) CreateDepartment(ctx context.Context, name string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name)
    VALUES ($1)
    ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
    RETURNING id
  `, name).Scan(&id)
	return id, err
}

func (s *Store) ListBranches(ctx context.Context) ([]Branch, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, address, latitude, longitude, created_at
    FROM branches
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Branch
	for rows.Next() {
		var b Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Address, &b.Latitude, &b.Longitude, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) CreateBranch(ctx context.Context, branch Branch) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO branches (name, address, latitude, longitude)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (name) DO UPDATE SET address = EXCLUDED.address
    RETURNING id
  `, branch.Name, branch.Address, branch.Latitude, branch.Longitude).Scan(&id)
	return id, err
}

func (s *Store) ListShifts(ctx context.Context) ([]Shift, error) {
	rows, err := s.DB.Query(ctx, `SELECT id, name, start_time, end_time, created_at FROM shifts ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Shift
	for rows.Next() {
		var sh Shift
		if err := rows.Scan(&sh.ID, &sh.Name, &sh.StartTime, &sh.EndTime, &sh.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (s *Store) CreateShift(ctx context.Context, shift Shift) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO shifts (name, start_time, end_time)
    VALUES ($1,$2,$3)
    RETURNING id
  `, shift.Name, shift.StartTime, shift.EndTime).Scan(&id)
	return id, err
}

func (s *Store) ShiftForEmployee(ctx context.Context, employeeID string) (*Shift, error) {
	var sh Shift
	err := s.DB.QueryRow(ctx, `
    SELECT sh.id, sh.name, sh.start_time, sh.end_time, sh.created_at
    FROM employees e
    JOIN shifts sh ON sh.id = e.shift_id
    WHERE e.id = $1
  `, employeeID).Scan(&sh.ID, &sh.Name, &sh.StartTime, &sh.EndTime, &sh.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrShiftNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
