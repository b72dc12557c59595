package attendance

import (
	"context"
	"time"
)

type Service struct {
	Store    StoreAPI
	Recorder *Recorder
	Sessions *SessionRegistry
	Fence    Geofence
	SSIDs    []string
}

func NewService(store StoreAPI, recorder *Recorder, fence Geofence, ssids []string) *Service {
	return &Service{
		Store:    store,
		Recorder: recorder,
		Sessions: NewSessionRegistry(),
		Fence:    fence,
		SSIDs:    ssids,
	}
}

// Input carries either simulated signal toggles or a raw device probe.
// A probe wins when both are present.
type Input struct {
	Signals *Signals `json:"signals,omitempty"`
	Probe   *Probe   `json:"probe,omitempty"`
}

func (s *Service) Signals(in Input) Signals {
	if in.Probe != nil {
		return SignalsFromProbe(*in.Probe, s.Fence, s.SSIDs)
	}
	if in.Signals != nil {
		return *in.Signals
	}
	return Signals{}
}

func (s *Service) Evaluate(in Input) (Signals, Evaluation) {
	signals := s.Signals(in)
	return signals, Evaluate(signals)
}

func (s *Service) Punch(ctx context.Context, employeeID string, in Input, online bool) (Record, error) {
	return s.Recorder.Record(ctx, s.Sessions.Get(employeeID), s.Signals(in), online)
}

func (s *Service) SessionRecords(employeeID string) []Record {
	return s.Sessions.Get(employeeID).Records()
}

func (s *Service) ListLogs(ctx context.Context, employeeID string, since time.Time, limit int) ([]Log, error) {
	return s.Store.ListLogs(ctx, employeeID, since, limit)
}

func (s *Service) CountPresentOn(ctx context.Context, day time.Time) (int, error) {
	return s.Store.CountPresentOn(ctx, day)
}
