package attendance

import "hrdash/internal/domain/alerts"

// SecurityAlert maps a refused punch to the alert it should raise. Only
// device integrity failures raise alerts; range and Wi-Fi misses do not.
func SecurityAlert(s Signals) (alerts.Alert, bool) {
	switch {
	case s.Rooted:
		return alerts.Alert{Type: alerts.TypeRootedDevice, Severity: alerts.SeverityHigh, Message: msgAttestation}, true
	case s.AttestationFailed:
		return alerts.Alert{Type: alerts.TypeAttestation, Severity: alerts.SeverityHigh, Message: msgAttestation}, true
	case s.Emulator:
		return alerts.Alert{Type: alerts.TypeAttestation, Severity: alerts.SeverityMedium, Message: msgEmulator}, true
	case s.MockLocation:
		return alerts.Alert{Type: alerts.TypeMockLocation, Severity: alerts.SeverityHigh, Message: msgMock}, true
	}
	return alerts.Alert{}, false
}
