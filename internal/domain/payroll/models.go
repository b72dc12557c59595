package payroll

import (
	"time"

	"hrdash/internal/domain/bank"
)

type Batch struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	TotalAmount   float64   `json:"totalAmount"`
	EmployeeCount int       `json:"employeeCount"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Record struct {
	ID            string         `json:"id"`
	BatchID       string         `json:"batchId"`
	EmployeeID    string         `json:"employeeId"`
	EmployeeName  string         `json:"employeeName,omitempty"`
	BasicSalary   float64        `json:"basicSalary"`
	Allowances    float64        `json:"allowances"`
	Deductions    float64        `json:"deductions"`
	NetSalary     float64        `json:"netSalary"`
	PaymentStatus string         `json:"paymentStatus"`
	BankAccount   *bank.Snapshot `json:"bankAccount,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// ChunkResult reports one insert chunk. Err is kept for callers; Error is
// its text for JSON responses.
type ChunkResult struct {
	Index    int    `json:"index"`
	Size     int    `json:"size"`
	Inserted int    `json:"inserted"`
	Err      error  `json:"-"`
	Error    string `json:"error,omitempty"`
}

type BuildResult struct {
	Batch   Batch         `json:"batch"`
	Planned int           `json:"planned"`
	Chunks  []ChunkResult `json:"chunks"`
	Warning string        `json:"warning,omitempty"`
}

// TransferRow is a payroll record joined with its employee's display name.
type TransferRow struct {
	RecordID      string
	BatchID       string
	EmployeeID    string
	EmployeeName  string
	NetSalary     float64
	PaymentStatus string
	BankAccount   *bank.Snapshot
	CreatedAt     time.Time
}

type Transfer struct {
	ID            string         `json:"id"`
	BatchID       string         `json:"batchId"`
	EmployeeID    string         `json:"employeeId"`
	EmployeeName  string         `json:"employeeName"`
	Amount        float64        `json:"amount"`
	AccountNumber string         `json:"accountNumber"`
	BankName      string         `json:"bankName"`
	Status        TransferStatus `json:"status"`
	CreatedAt     time.Time      `json:"createdAt"`
}

type PurgeResult struct {
	RecordsDeleted int64 `json:"recordsDeleted"`
	BatchesDeleted int64 `json:"batchesDeleted"`
}
