package core

import (
	"context"
	"errors"
	"strings"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) ListEmployees(ctx context.Context) ([]Employee, error) {
	return s.Store.ListEmployees(ctx)
}

func (s *Service) CountEmployees(ctx context.Context) (int, error) {
	return s.Store.CountEmployees(ctx)
}

func (s *Service) GetEmployee(ctx context.Context, employeeID string) (*Employee, error) {
	return s.Store.GetEmployee(ctx, employeeID)
}

func (s *Service) GetEmployeeByEmail(ctx context.Context, email string) (*Employee, error) {
	return s.Store.GetEmployeeByEmail(ctx, strings.TrimSpace(email))
}

func (s *Service) CreateEmployee(ctx context.Context, emp Employee) (string, error) {
	normalizeEmployee(&emp)
	return s.Store.CreateEmployee(ctx, emp)
}

func (s *Service) UpdateEmployee(ctx context.Context, employeeID string, emp Employee) error {
	normalizeEmployee(&emp)
	return s.Store.UpdateEmployee(ctx, employeeID, emp)
}

// Deactivate is the only removal path; employees are never hard-deleted.
func (s *Service) Deactivate(ctx context.Context, employeeID string) error {
	return s.Store.SetEmployeeStatus(ctx, employeeID, StatusInactive)
}

func (s *Service) ListDepartments(ctx context.Context) ([]Department, error) {
	return s.Store.ListDepartments(ctx)
}

func (s *Service) CreateDepartment(ctx context.Context, name string) (string, error) {
	return s.Store.CreateDepartment(ctx, strings.TrimSpace(name))
}

func (s *Service) ListBranches(ctx context.Context) ([]Branch, error) {
	return s.Store.ListBranches(ctx)
}

func (s *Service) CreateBranch(ctx context.Context, branch Branch) (string, error) {
	branch.Name = strings.TrimSpace(branch.Name)
	return s.Store.CreateBranch(ctx, branch)
}

func (s *Service) ListShifts(ctx context.Context) ([]Shift, error) {
	return s.Store.ListShifts(ctx)
}

func (s *Service) CreateShift(ctx context.Context, shift Shift) (string, error) {
	if shift.StartTime == "" {
		shift.StartTime = DefaultShiftStart
	}
	if shift.EndTime == "" {
		shift.EndTime = DefaultShiftEnd
	}
	return s.Store.CreateShift(ctx, shift)
}

// ShiftWindow returns the employee's shift bounds, falling back to the
// default 09:00-17:00 when no shift is assigned.
func (s *Service) ShiftWindow(ctx context.Context, employeeID string) (string, string, error) {
	shift, err := s.Store.ShiftForEmployee(ctx, employeeID)
	if errors.Is(err, ErrShiftNotFound) {
		return DefaultShiftStart, DefaultShiftEnd, nil
	}
	if err != nil {
		return "", "", err
	}
	return shift.StartTime, shift.EndTime, nil
}

func normalizeEmployee(emp *Employee) {
	emp.FirstName = strings.TrimSpace(emp.FirstName)
	emp.LastName = strings.TrimSpace(emp.LastName)
	emp.Email = strings.ToLower(strings.TrimSpace(emp.Email))
	emp.Phone = strings.TrimSpace(emp.Phone)
	emp.JobTitle = strings.TrimSpace(emp.JobTitle)
}
