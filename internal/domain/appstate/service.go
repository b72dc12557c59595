package appstate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"hrdash/internal/domain/alerts"
	"hrdash/internal/domain/core"
)

// Directory is satisfied by core.Service.
type Directory interface {
	ListEmployees(ctx context.Context) ([]core.Employee, error)
	ListBranches(ctx context.Context) ([]core.Branch, error)
	ListDepartments(ctx context.Context) ([]core.Department, error)
}

// AlertSource is satisfied by alerts.Service.
type AlertSource interface {
	List(ctx context.Context, filter alerts.Filter) ([]alerts.Alert, error)
}

const openAlertLimit = 500

// Service publishes snapshots. Refresh builds the next snapshot off to the
// side and swaps it in, so readers never see a partial load.
type Service struct {
	Directory Directory
	Alerts    AlertSource
	Now       func() time.Time

	current atomic.Pointer[Snapshot]
	mu      sync.Mutex
}

func NewService(dir Directory, alertSource AlertSource) *Service {
	return &Service{Directory: dir, Alerts: alertSource, Now: time.Now}
}

func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	employees, err := s.Directory.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	branches, err := s.Directory.ListBranches(ctx)
	if err != nil {
		return nil, err
	}
	departments, err := s.Directory.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}
	var open []alerts.Alert
	if s.Alerts != nil {
		open, err = s.Alerts.List(ctx, alerts.Filter{Limit: openAlertLimit})
		if err != nil {
			return nil, err
		}
	}
	snap := newSnapshot(employees, branches, departments, open, s.Now())
	s.current.Store(snap)
	return snap, nil
}

// Current returns the last published snapshot, loading one if none exists.
func (s *Service) Current(ctx context.Context) (*Snapshot, error) {
	if snap := s.current.Load(); snap != nil {
		return snap, nil
	}
	return s.Refresh(ctx)
}

// Loaded returns the last published snapshot without touching the database.
func (s *Service) Loaded() *Snapshot {
	return s.current.Load()
}

// RefreshJob adapts Refresh to the job runner signature.
func (s *Service) RefreshJob(ctx context.Context) (any, error) {
	snap, err := s.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Meta(), nil
}
