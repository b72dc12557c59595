package alerts

import "time"

const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

const (
	TypeBruteForce    = "BRUTE_FORCE"
	TypeMockLocation  = "MOCK_LOCATION"
	TypeRootedDevice  = "ROOTED_DEVICE"
	TypeAttestation   = "ATTESTATION_FAILED"
	TypeOutOfGeofence = "OUT_OF_GEOFENCE"
)

type Alert struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId,omitempty"`
	EmployeeName string     `json:"employeeName"`
	Type         string     `json:"alertType"`
	Severity     string     `json:"severity"`
	Message      string     `json:"message"`
	IsRead       bool       `json:"isRead"`
	IsResolved   bool       `json:"isResolved"`
	CreatedAt    time.Time  `json:"createdAt"`
	ResolvedAt   *time.Time `json:"resolvedAt,omitempty"`
}

type Filter struct {
	IncludeResolved bool
	Limit           int
	Offset          int
}
