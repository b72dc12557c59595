package loans

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

func (s *Store) Create(ctx context.Context, loan Loan) (Loan, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO loans (employee_id, amount, monthly_installment, remaining_amount, status)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, created_at
  `, loan.EmployeeID, loan.Amount, loan.MonthlyInstallment, loan.RemainingAmount, loan.Status).Scan(&loan.ID, &loan.CreatedAt)
	return loan, err
}

func (s *Store) List(ctx context.Context, employeeID string, activeOnly bool) ([]Loan, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT l.id, l.employee_id, TRIM(e.first_name || ' ' || e.last_name),
           l.amount::float8, l.monthly_installment::float8, l.remaining_amount::float8, l.status, l.created_at
    FROM loans l
    JOIN employees e ON e.id = l.employee_id
    WHERE ($1 = '' OR l.employee_id::text = $1)
      AND (NOT $2 OR l.status = 'ACTIVE')
    ORDER BY l.created_at DESC
  `, employeeID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Loan
	for rows.Next() {
		var l Loan
		if err := rows.Scan(&l.ID, &l.EmployeeID, &l.EmployeeName, &l.Amount, &l.MonthlyInstallment,
			&l.RemainingAmount, &l.Status, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
