package bank

import "time"

type Account struct {
	ID            string    `json:"id"`
	EmployeeID    string    `json:"employeeId" validate:"required"`
	BankName      string    `json:"bankName" validate:"required"`
	AccountHolder string    `json:"accountHolder"`
	AccountNumber string    `json:"accountNumber"`
	IBAN          string    `json:"iban" validate:"required,eg_iban"`
	SwiftCode     string    `json:"swiftCode" validate:"omitempty,min=8,max=11"`
	BranchCode    string    `json:"branchCode"`
	IsDefault     bool      `json:"isDefault"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Snapshot is the copy embedded in a payroll record at batch time. It is
// stored as plain JSONB, so account number and IBAN are masked.
type Snapshot struct {
	BankName      string `json:"bank_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	AccountHolder string `json:"account_holder,omitempty"`
	IBAN          string `json:"iban,omitempty"`
}

func (a Account) Snapshot() Snapshot {
	return Snapshot{
		BankName:      a.BankName,
		AccountNumber: MaskAccount(a.AccountNumber),
		AccountHolder: a.AccountHolder,
		IBAN:          MaskAccount(a.IBAN),
	}
}
