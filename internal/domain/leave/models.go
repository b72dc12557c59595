package leave

import "time"

const (
	TypeAnnual    = "ANNUAL"
	TypeSick      = "SICK"
	TypeCasual    = "CASUAL"
	TypeUnpaid    = "UNPAID"
	TypeMaternity = "MATERNITY"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

type Request struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	EmployeeName string     `json:"employeeName,omitempty"`
	LeaveType    string     `json:"leaveType"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	StartHalf    bool       `json:"startHalf,omitempty"`
	EndHalf      bool       `json:"endHalf,omitempty"`
	Days         float64    `json:"days"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	DecidedAt    *time.Time `json:"decidedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type Mission struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	EmployeeName string     `json:"employeeName,omitempty"`
	Destination  string     `json:"destination"`
	Purpose      string     `json:"purpose"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	Status       string     `json:"status"`
	DecidedAt    *time.Time `json:"decidedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type Filter struct {
	EmployeeID string
	Status     string
	Limit      int
	Offset     int
}

func ValidType(leaveType string) bool {
	switch leaveType {
	case TypeAnnual, TypeSick, TypeCasual, TypeUnpaid, TypeMaternity:
		return true
	}
	return false
}
