package reports

import "time"

type Dashboard struct {
	Employees          int       `json:"employees"`
	ActiveEmployees    int       `json:"activeEmployees"`
	PresentToday       int       `json:"presentToday"`
	OpenAlerts         int       `json:"openAlerts"`
	PendingLeaves      int       `json:"pendingLeaves"`
	LatestBatchName    string    `json:"latestBatchName,omitempty"`
	LatestPayrollTotal float64   `json:"latestPayrollTotal"`
	GeneratedAt        time.Time `json:"generatedAt"`
}

// DepartmentPayroll aggregates the most recent payroll line of every
// employee in a department.
type DepartmentPayroll struct {
	Department  string  `json:"department"`
	Employees   int     `json:"employees"`
	TotalBasic  float64 `json:"totalBasic"`
	TotalNet    float64 `json:"totalNet"`
	TotalDeduct float64 `json:"totalDeductions"`
}

type FinancialReport struct {
	Departments []DepartmentPayroll `json:"departments"`
	GrandTotal  float64             `json:"grandTotal"`
	Employees   int                 `json:"employees"`
}

type JobRun struct {
	ID          string         `json:"id"`
	JobType     string         `json:"jobType"`
	Status      string         `json:"status"`
	Details     map[string]any `json:"details"`
	StartedAt   time.Time      `json:"startedAt"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}

type JobRunFilter struct {
	JobType     string
	Status      string
	StartedFrom *time.Time
	StartedTo   *time.Time
}

const UnassignedDepartment = "Unassigned"
