package attendance

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogStore struct {
	logs []Log
	err  error
}

func (f *fakeLogStore) InsertLog(_ context.Context, log Log) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.logs = append(f.logs, log)
	return fmt.Sprintf("log-%d", len(f.logs)), nil
}

func (f *fakeLogStore) ListLogs(context.Context, string, time.Time, int) ([]Log, error) {
	return f.logs, nil
}

func (f *fakeLogStore) CountPresentOn(context.Context, time.Time) (int, error) {
	return len(f.logs), nil
}

type fakeShifts struct {
	start, end string
	err        error
}

func (f fakeShifts) ShiftWindow(context.Context, string) (string, string, error) {
	return f.start, f.end, f.err
}

var ready = Signals{InGeofence: true, CorrectWifi: true}

func newTestRecorder(store StoreAPI, shifts ShiftResolver) *Recorder {
	n := 0
	r := NewRecorder(store, shifts, nil)
	r.Now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	r.NewID = func() string {
		n++
		return fmt.Sprintf("ref-%d", n)
	}
	return r
}

func TestRecordRequiresReady(t *testing.T) {
	store := &fakeLogStore{}
	r := newTestRecorder(store, nil)
	sess := NewSessionRegistry().Get("e1")

	_, err := r.Record(context.Background(), sess, Signals{InGeofence: false, CorrectWifi: true}, true)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Empty(t, sess.Records())
	assert.Empty(t, store.logs)
}

func TestRecordAlternatesByParity(t *testing.T) {
	store := &fakeLogStore{}
	r := newTestRecorder(store, fakeShifts{start: "08:00", end: "16:00"})
	sess := NewSessionRegistry().Get("e1")
	ctx := context.Background()

	first, err := r.Record(ctx, sess, ready, true)
	require.NoError(t, err)
	second, err := r.Record(ctx, sess, ready, true)
	require.NoError(t, err)
	third, err := r.Record(ctx, sess, ready, true)
	require.NoError(t, err)

	assert.Equal(t, LogCheckIn, first.Type)
	assert.Equal(t, LogCheckOut, second.Type)
	assert.Equal(t, LogCheckIn, third.Type)
	require.Len(t, store.logs, 3)
	assert.Equal(t, "08:00", store.logs[0].ShiftStart)
	assert.Equal(t, LogStatusPresent, store.logs[0].Status)
	assert.True(t, store.logs[0].LocationVerified)
	assert.True(t, first.Synced)
}

func TestRecordOfflineSkipsInsert(t *testing.T) {
	store := &fakeLogStore{}
	r := newTestRecorder(store, nil)
	sess := NewSessionRegistry().Get("e1")

	rec, err := r.Record(context.Background(), sess, ready, false)
	require.NoError(t, err)
	assert.False(t, rec.Synced)
	assert.Equal(t, FlagOfflineEncrypted, rec.Flag)
	assert.Empty(t, store.logs)

	records := sess.Records()
	require.Len(t, records, 1)
	assert.Equal(t, FlagOfflineEncrypted, records[0].Flag)

	// The offline punch still counts toward parity.
	next, err := r.Record(context.Background(), sess, ready, true)
	require.NoError(t, err)
	assert.Equal(t, LogCheckOut, next.Type)
}

func TestRecordInsertFailureSurfacesRawError(t *testing.T) {
	backendErr := errors.New(`duplicate key value violates unique constraint "attendance_logs_pkey"`)
	store := &fakeLogStore{err: backendErr}
	r := newTestRecorder(store, nil)
	sess := NewSessionRegistry().Get("e1")

	rec, err := r.Record(context.Background(), sess, ready, true)
	assert.Same(t, backendErr, err)
	assert.False(t, rec.Synced)
	records := sess.Records()
	require.Len(t, records, 1)
	assert.False(t, records[0].Synced)
}

func TestRecordFallsBackToDefaultShift(t *testing.T) {
	store := &fakeLogStore{}
	r := newTestRecorder(store, fakeShifts{err: errors.New("lookup failed")})
	sess := NewSessionRegistry().Get("e1")

	_, err := r.Record(context.Background(), sess, ready, true)
	require.NoError(t, err)
	assert.Equal(t, "09:00", store.logs[0].ShiftStart)
	assert.Equal(t, "17:00", store.logs[0].ShiftEnd)
}

func TestMockLocationNeverReachesInsert(t *testing.T) {
	// Mock location is a breach, so location_verified=false is never persisted
	// through the READY path.
	store := &fakeLogStore{}
	r := newTestRecorder(store, nil)
	sess := NewSessionRegistry().Get("e1")

	_, err := r.Record(context.Background(), sess, Signals{InGeofence: true, CorrectWifi: true, MockLocation: true}, true)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Empty(t, store.logs)
}

func TestSessionRegistryReturnsSameSession(t *testing.T) {
	reg := NewSessionRegistry()
	assert.Same(t, reg.Get("e1"), reg.Get("e1"))
	assert.NotSame(t, reg.Get("e1"), reg.Get("e2"))
}
