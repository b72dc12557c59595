package attendance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceProbeWinsOverSignals(t *testing.T) {
	svc := NewService(&fakeLogStore{}, nil, cairoOffice, []string{"HQ"})
	_, eval := svc.Evaluate(Input{
		Signals: &Signals{InGeofence: true, CorrectWifi: true},
		Probe:   &Probe{SSID: "HQ"},
	})
	assert.Equal(t, StatusOutOfRange, eval.Status)
}

func TestServicePunchUsesPerEmployeeSession(t *testing.T) {
	store := &fakeLogStore{}
	svc := NewService(store, newTestRecorder(store, nil), cairoOffice, nil)
	ctx := context.Background()
	in := Input{Signals: &ready}

	a, err := svc.Punch(ctx, "e1", in, true)
	require.NoError(t, err)
	b, err := svc.Punch(ctx, "e2", in, true)
	require.NoError(t, err)

	assert.Equal(t, LogCheckIn, a.Type)
	assert.Equal(t, LogCheckIn, b.Type)
	assert.Len(t, svc.SessionRecords("e1"), 1)
}

func TestServiceEmptyInputIsNotReady(t *testing.T) {
	svc := NewService(&fakeLogStore{}, nil, cairoOffice, nil)
	_, eval := svc.Evaluate(Input{})
	assert.Equal(t, StatusOutOfRange, eval.Status)
}
