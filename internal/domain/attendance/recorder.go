package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hrdash/internal/domain/core"
	"hrdash/internal/platform/metrics"
)

type Recorder struct {
	Store   StoreAPI
	Shifts  ShiftResolver
	Metrics *metrics.Collector
	Now     func() time.Time
	NewID   func() string
}

func NewRecorder(store StoreAPI, shifts ShiftResolver, collector *metrics.Collector) *Recorder {
	return &Recorder{
		Store:   store,
		Shifts:  shifts,
		Metrics: collector,
		Now:     time.Now,
		NewID:   uuid.NewString,
	}
}

// Record punches in or out for the session's employee. The local record is
// always kept; it is marked unsynced when offline or when the insert fails.
// Failures are terminal for the attempt and the backend error is returned
// as-is.
func (r *Recorder) Record(ctx context.Context, session *Session, signals Signals, online bool) (Record, error) {
	eval := Evaluate(signals)
	if !eval.Ready() {
		msg := string(eval.Status)
		if eval.Message != nil {
			msg = *eval.Message
		}
		return Record{}, fmt.Errorf("%w: %s", ErrNotReady, msg)
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	rec := Record{
		ReferenceID:      r.NewID(),
		EmployeeID:       session.EmployeeID,
		Type:             session.nextType(),
		Timestamp:        r.Now(),
		LocationVerified: !signals.MockLocation,
	}
	session.records = append(session.records, rec)

	if !online {
		rec.Flag = FlagOfflineEncrypted
		session.setSynced(rec.ReferenceID, false, rec.Flag)
		r.Metrics.Add("attendance_offline", 1)
		slog.Warn("attendance recorded offline", "employeeId", rec.EmployeeID, "referenceId", rec.ReferenceID)
		return rec, nil
	}

	start, end := r.shiftWindow(ctx, session.EmployeeID)
	_, err := r.Store.InsertLog(ctx, Log{
		EmployeeID:       rec.EmployeeID,
		ReferenceID:      rec.ReferenceID,
		LogType:          rec.Type,
		Status:           LogStatusPresent,
		LocationVerified: rec.LocationVerified,
		ShiftStart:       start,
		ShiftEnd:         end,
		LoggedAt:         rec.Timestamp,
	})
	if err != nil {
		session.setSynced(rec.ReferenceID, false, "")
		return rec, err
	}

	rec.Synced = true
	session.setSynced(rec.ReferenceID, true, "")
	r.Metrics.Add("attendance_punches", 1)
	return rec, nil
}

func (r *Recorder) shiftWindow(ctx context.Context, employeeID string) (string, string) {
	if r.Shifts == nil {
		return core.DefaultShiftStart, core.DefaultShiftEnd
	}
	start, end, err := r.Shifts.ShiftWindow(ctx, employeeID)
	if err != nil || start == "" || end == "" {
		if err != nil {
			slog.Warn("shift lookup failed, using default", "employeeId", employeeID, "err", err)
		}
		return core.DefaultShiftStart, core.DefaultShiftEnd
	}
	return start, end
}
