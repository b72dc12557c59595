package core

import "context"

type StoreAPI interface {
	ListEmployees(ctx context.Context) ([]Employee, error)
	CountEmployees(ctx context.Context) (int, error)
	GetEmployee(ctx context.Context, employeeID string) (*Employee, error)
	GetEmployeeByEmail(ctx context.Context, email string) (*Employee, error)
	CreateEmployee(ctx context.Context, emp Employee) (string, error)
	UpdateEmployee(ctx context.Context, employeeID string, emp Employee) error
	SetEmployeeStatus(ctx context.Context, employeeID, status string) error

	ListDepartments(ctx context.Context) ([]Department, error)
	CreateDepartment(ctx context.Context, name string) (string, error)
	ListBranches(ctx context.Context) ([]Branch, error)
	CreateBranch(ctx context.Context, branch Branch) (string, error)
	ListShifts(ctx context.Context) ([]Shift, error)
	CreateShift(ctx context.Context, shift Shift) (string, error)
	ShiftForEmployee(ctx context.Context, employeeID string) (*Shift, error)
}

var _ StoreAPI = (*Store)(nil)
