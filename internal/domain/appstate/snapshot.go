package appstate

import (
	"time"

	"hrdash/internal/domain/alerts"
	"hrdash/internal/domain/core"
)

// Snapshot is a read-only view of reference data. It is never mutated after
// publication; readers may share it freely.
type Snapshot struct {
	Employees   []core.Employee
	Branches    []core.Branch
	Departments []core.Department
	OpenAlerts  []alerts.Alert
	LoadedAt    time.Time

	byID map[string]int
}

func newSnapshot(employees []core.Employee, branches []core.Branch, departments []core.Department, open []alerts.Alert, at time.Time) *Snapshot {
	s := &Snapshot{
		Employees:   append([]core.Employee(nil), employees...),
		Branches:    append([]core.Branch(nil), branches...),
		Departments: append([]core.Department(nil), departments...),
		OpenAlerts:  append([]alerts.Alert(nil), open...),
		LoadedAt:    at,
		byID:        make(map[string]int, len(employees)),
	}
	for i, emp := range s.Employees {
		s.byID[emp.ID] = i
	}
	return s
}

// ActiveEmployeeIDs returns a fresh set on every call.
func (s *Snapshot) ActiveEmployeeIDs() map[string]bool {
	out := map[string]bool{}
	if s == nil {
		return out
	}
	for _, emp := range s.Employees {
		if emp.IsActive() {
			out[emp.ID] = true
		}
	}
	return out
}

func (s *Snapshot) EmployeeByID(id string) (core.Employee, bool) {
	if s == nil {
		return core.Employee{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return core.Employee{}, false
	}
	return s.Employees[i], true
}

func (s *Snapshot) EmployeeNames() map[string]string {
	out := map[string]string{}
	if s == nil {
		return out
	}
	for _, emp := range s.Employees {
		out[emp.ID] = emp.FullName()
	}
	return out
}

type Meta struct {
	LoadedAt        time.Time `json:"loadedAt"`
	Employees       int       `json:"employees"`
	ActiveEmployees int       `json:"activeEmployees"`
	Branches        int       `json:"branches"`
	Departments     int       `json:"departments"`
	OpenAlerts      int       `json:"openAlerts"`
}

func (s *Snapshot) Meta() Meta {
	if s == nil {
		return Meta{}
	}
	return Meta{
		LoadedAt:        s.LoadedAt,
		Employees:       len(s.Employees),
		ActiveEmployees: len(s.ActiveEmployeeIDs()),
		Branches:        len(s.Branches),
		Departments:     len(s.Departments),
		OpenAlerts:      len(s.OpenAlerts),
	}
}
