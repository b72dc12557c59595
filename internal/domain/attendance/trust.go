package attendance

type Status string

const (
	StatusReady             Status = "READY"
	StatusOutOfRange        Status = "OUT_OF_RANGE"
	StatusWrongWifi         Status = "WRONG_WIFI"
	StatusSecurityBreach    Status = "SECURITY_BREACH"
	StatusAttestationFailed Status = "ATTESTATION_FAILED"
)

// Signals are client-reported device and environment facts. They are taken
// as-is; nothing here verifies them.
type Signals struct {
	InGeofence        bool `json:"inGeofence"`
	CorrectWifi       bool `json:"correctWifi"`
	MockLocation      bool `json:"mockLocationDetected"`
	Rooted            bool `json:"rooted"`
	Emulator          bool `json:"emulator"`
	AttestationFailed bool `json:"attestationFailed"`
}

type Evaluation struct {
	Status  Status  `json:"status"`
	Message *string `json:"message"`
}

func (e Evaluation) Ready() bool {
	return e.Status == StatusReady
}

const (
	msgAttestation = "Device integrity check failed (rooted device or failed attestation)"
	msgEmulator    = "Emulator detected; attendance must be recorded from a physical device"
	msgMock        = "Mock location detected; disable location spoofing to continue"
	msgOutOfRange  = "You are outside the allowed office area"
	msgWrongWifi   = "Connect to the office Wi-Fi network to continue"
)

// Evaluate applies the ordered trust policy. Device integrity failures are
// checked first so they always mask location and network failures.
func Evaluate(s Signals) Evaluation {
	switch {
	case s.Rooted || s.AttestationFailed:
		return failed(StatusAttestationFailed, msgAttestation)
	case s.Emulator:
		return failed(StatusSecurityBreach, msgEmulator)
	case s.MockLocation:
		return failed(StatusSecurityBreach, msgMock)
	case !s.InGeofence:
		return failed(StatusOutOfRange, msgOutOfRange)
	case !s.CorrectWifi:
		return failed(StatusWrongWifi, msgWrongWifi)
	}
	return Evaluation{Status: StatusReady}
}

func failed(status Status, message string) Evaluation {
	return Evaluation{Status: status, Message: &message}
}
