package core

const (
	StatusActive     = "Active"
	StatusInactive   = "Inactive"
	StatusTerminated = "Terminated"
	StatusOnLeave    = "OnLeave"
)

var EmployeeStatuses = []string{StatusActive, StatusInactive, StatusTerminated, StatusOnLeave}

const (
	DefaultShiftStart = "09:00"
	DefaultShiftEnd   = "17:00"
)
