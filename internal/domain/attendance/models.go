package attendance

import "time"

type LogType string

const (
	LogCheckIn  LogType = "CHECK_IN"
	LogCheckOut LogType = "CHECK_OUT"
)

const (
	LogStatusPresent     = "PRESENT"
	FlagOfflineEncrypted = "OFFLINE_ENCRYPTED_LOG"
)

// Record is the local, per-session view of a punch.
type Record struct {
	ReferenceID      string    `json:"referenceId"`
	EmployeeID       string    `json:"employeeId"`
	Type             LogType   `json:"type"`
	Timestamp        time.Time `json:"timestamp"`
	LocationVerified bool      `json:"locationVerified"`
	Synced           bool      `json:"synced"`
	Flag             string    `json:"flag,omitempty"`
}

// Log is the persisted attendance_logs row.
type Log struct {
	ID               string    `json:"id"`
	EmployeeID       string    `json:"employeeId"`
	ReferenceID      string    `json:"referenceId"`
	LogType          LogType   `json:"logType"`
	Status           string    `json:"status"`
	LocationVerified bool      `json:"locationVerified"`
	ShiftStart       string    `json:"shiftStart"`
	ShiftEnd         string    `json:"shiftEnd"`
	LoggedAt         time.Time `json:"loggedAt"`
}
