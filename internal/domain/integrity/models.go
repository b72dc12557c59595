package integrity

import "time"

type Entry struct {
	EmployeeID     string    `json:"employeeId"`
	EmployeeName   string    `json:"employeeName"`
	Score          int       `json:"score"`
	ViolationCount int       `json:"violationCount"`
	Tier           string    `json:"tier"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Subject is one employee considered by a sweep.
type Subject struct {
	ID   string
	Name string
}

// AlertRef is the minimum of a security alert needed for attribution.
// EmployeeID is empty for alerts written before the employee link existed.
type AlertRef struct {
	EmployeeID   string
	EmployeeName string
}

type Result struct {
	Updated int     `json:"updated"`
	Entries []Entry `json:"entries"`
}
