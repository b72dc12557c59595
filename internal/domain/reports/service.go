package reports

import (
	"context"
	"time"
)

type Service struct {
	Store StoreAPI
	Now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store, Now: time.Now}
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	now := s.Now()
	d := Dashboard{GeneratedAt: now}
	var err error
	if d.Employees, d.ActiveEmployees, err = s.Store.EmployeeCounts(ctx); err != nil {
		return Dashboard{}, err
	}
	if d.PresentToday, err = s.Store.PresentOn(ctx, now); err != nil {
		return Dashboard{}, err
	}
	if d.OpenAlerts, err = s.Store.OpenAlerts(ctx); err != nil {
		return Dashboard{}, err
	}
	if d.PendingLeaves, err = s.Store.PendingLeaves(ctx); err != nil {
		return Dashboard{}, err
	}
	if d.LatestBatchName, d.LatestPayrollTotal, err = s.Store.LatestBatch(ctx); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

// Financial builds the per-department view over each employee's latest
// payroll line. Employees without a department are grouped as Unassigned.
func (s *Service) Financial(ctx context.Context) (FinancialReport, error) {
	rows, err := s.Store.DepartmentPayroll(ctx)
	if err != nil {
		return FinancialReport{}, err
	}
	report := FinancialReport{Departments: make([]DepartmentPayroll, 0, len(rows))}
	for _, row := range rows {
		if row.Department == "" {
			row.Department = UnassignedDepartment
		}
		report.GrandTotal += row.TotalNet
		report.Employees += row.Employees
		report.Departments = append(report.Departments, row)
	}
	return report, nil
}

func (s *Service) JobRuns(ctx context.Context, filter JobRunFilter, limit, offset int) ([]JobRun, int, error) {
	runs, err := s.Store.ListJobRuns(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Store.CountJobRuns(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}

// FinancialRows flattens the report for tabular exports.
func FinancialRows(report FinancialReport) ([]string, [][]string) {
	header := []string{"Department", "Employees", "Total Basic", "Total Deductions", "Total Net"}
	rows := make([][]string, 0, len(report.Departments)+1)
	for _, d := range report.Departments {
		rows = append(rows, []string{d.Department, itoa(d.Employees), money(d.TotalBasic), money(d.TotalDeduct), money(d.TotalNet)})
	}
	rows = append(rows, []string{"Total", itoa(report.Employees), "", "", money(report.GrandTotal)})
	return header, rows
}
