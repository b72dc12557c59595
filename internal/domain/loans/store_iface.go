package loans

import "context"

type StoreAPI interface {
	Create(ctx context.Context, loan Loan) (Loan, error)
	List(ctx context.Context, employeeID string, activeOnly bool) ([]Loan, error)
}

var _ StoreAPI = (*Store)(nil)
