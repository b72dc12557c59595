package core

import (
	"strings"
	"time"
)

type Employee struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId,omitempty"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	JobTitle       string     `json:"jobTitle"`
	DepartmentID   string     `json:"departmentId,omitempty"`
	DepartmentName string     `json:"departmentName,omitempty"`
	BranchID       string     `json:"branchId,omitempty"`
	BranchName     string     `json:"branchName,omitempty"`
	ShiftID        string     `json:"shiftId,omitempty"`
	BasicSalary    float64    `json:"basicSalary"`
	HireDate       *time.Time `json:"hireDate,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// IsActive treats a missing status as active; legacy rows carry either casing.
func (e Employee) IsActive() bool {
	return IsActiveStatus(e.Status)
}

func IsActiveStatus(status string) bool {
	switch strings.TrimSpace(status) {
	case "", StatusActive, "ACTIVE":
		return true
	}
	return false
}

type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Branch struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Shift struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	CreatedAt time.Time `json:"createdAt"`
}
