package loans

import "context"

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

// Create opens an ACTIVE loan whose remaining balance starts at the full
// amount. Active loans are picked up by the payroll deduction procedure.
func (s *Service) Create(ctx context.Context, loan Loan) (Loan, error) {
	if loan.Amount <= 0 {
		return Loan{}, ErrInvalidAmount
	}
	if loan.MonthlyInstallment <= 0 || loan.MonthlyInstallment > loan.Amount {
		return Loan{}, ErrInvalidInstallment
	}
	loan.RemainingAmount = loan.Amount
	loan.Status = StatusActive
	return s.Store.Create(ctx, loan)
}

func (s *Service) List(ctx context.Context, employeeID string, activeOnly bool) ([]Loan, error) {
	return s.Store.List(ctx, employeeID, activeOnly)
}
