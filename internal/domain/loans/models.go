package loans

import "time"

const (
	StatusActive = "ACTIVE"
	StatusPaid   = "PAID"
)

type Loan struct {
	ID                 string    `json:"id"`
	EmployeeID         string    `json:"employeeId" validate:"required"`
	EmployeeName       string    `json:"employeeName,omitempty"`
	Amount             float64   `json:"amount" validate:"gt=0"`
	MonthlyInstallment float64   `json:"monthlyInstallment" validate:"gt=0"`
	RemainingAmount    float64   `json:"remainingAmount"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Installments is the number of monthly payments needed to clear the
// remaining balance.
func (l Loan) Installments() int {
	if l.MonthlyInstallment <= 0 || l.RemainingAmount <= 0 {
		return 0
	}
	n := int(l.RemainingAmount / l.MonthlyInstallment)
	if float64(n)*l.MonthlyInstallment < l.RemainingAmount {
		n++
	}
	return n
}
