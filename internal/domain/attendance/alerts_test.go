package attendance

import (
	"testing"

	"hrdash/internal/domain/alerts"
)

func TestSecurityAlert(t *testing.T) {
	cases := []struct {
		name    string
		signals Signals
		want    string
		raised  bool
	}{
		{"rooted wins over mock", Signals{Rooted: true, MockLocation: true}, alerts.TypeRootedDevice, true},
		{"attestation", Signals{AttestationFailed: true}, alerts.TypeAttestation, true},
		{"emulator", Signals{Emulator: true}, alerts.TypeAttestation, true},
		{"mock", Signals{MockLocation: true, InGeofence: true}, alerts.TypeMockLocation, true},
		{"out of range only", Signals{CorrectWifi: true}, "", false},
		{"ready", Signals{InGeofence: true, CorrectWifi: true}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			alert, ok := SecurityAlert(tc.signals)
			if ok != tc.raised {
				t.Fatalf("raised = %v, want %v", ok, tc.raised)
			}
			if alert.Type != tc.want {
				t.Fatalf("type = %q, want %q", alert.Type, tc.want)
			}
		})
	}
}
