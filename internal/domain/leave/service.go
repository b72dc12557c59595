package leave

import (
	"context"
	"strings"
	"time"
)

type Service struct {
	Store StoreAPI
	Now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store, Now: time.Now}
}

func (s *Service) CreateRequest(ctx context.Context, req Request) (Request, error) {
	req.LeaveType = strings.ToUpper(strings.TrimSpace(req.LeaveType))
	if !ValidType(req.LeaveType) {
		return Request{}, ErrInvalidType
	}
	days, err := CalculateRequestDays(req.StartDate, req.EndDate, req.StartHalf, req.EndHalf)
	if err != nil {
		return Request{}, err
	}
	req.Days = days
	req.Reason = strings.TrimSpace(req.Reason)
	req.Status = StatusPending
	return s.Store.CreateRequest(ctx, req)
}

func (s *Service) ListRequests(ctx context.Context, filter Filter) ([]Request, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.Store.ListRequests(ctx, filter)
}

func (s *Service) GetRequest(ctx context.Context, id string) (Request, error) {
	return s.Store.GetRequest(ctx, id)
}

// Decide approves or rejects a pending request. Only PENDING rows move.
func (s *Service) Decide(ctx context.Context, id string, approve bool) (Request, error) {
	req, err := s.Store.GetRequest(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if req.Status != StatusPending {
		return Request{}, ErrInvalidState
	}
	status := StatusRejected
	if approve {
		status = StatusApproved
	}
	now := s.Now()
	if err := s.Store.DecideRequest(ctx, id, status, now); err != nil {
		return Request{}, err
	}
	req.Status = status
	req.DecidedAt = &now
	return req, nil
}

// Cancel lets the requesting employee withdraw a pending request.
func (s *Service) Cancel(ctx context.Context, id, employeeID string) error {
	req, err := s.Store.GetRequest(ctx, id)
	if err != nil {
		return err
	}
	if req.EmployeeID != employeeID {
		return ErrForbidden
	}
	if req.Status != StatusPending {
		return ErrInvalidState
	}
	return s.Store.DecideRequest(ctx, id, StatusCancelled, s.Now())
}

func (s *Service) CountPending(ctx context.Context) (int, error) {
	return s.Store.CountPending(ctx)
}

func (s *Service) CreateMission(ctx context.Context, m Mission) (Mission, error) {
	m.Destination = strings.TrimSpace(m.Destination)
	if m.Destination == "" {
		return Mission{}, ErrDestinationEmpty
	}
	if _, err := CalculateDays(m.StartDate, m.EndDate); err != nil {
		return Mission{}, err
	}
	m.Purpose = strings.TrimSpace(m.Purpose)
	m.Status = StatusPending
	return s.Store.CreateMission(ctx, m)
}

func (s *Service) ListMissions(ctx context.Context, filter Filter) ([]Mission, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.Store.ListMissions(ctx, filter)
}

func (s *Service) DecideMission(ctx context.Context, id string, approve bool) (Mission, error) {
	m, err := s.Store.GetMission(ctx, id)
	if err != nil {
		return Mission{}, err
	}
	if m.Status != StatusPending {
		return Mission{}, ErrInvalidState
	}
	status := StatusRejected
	if approve {
		status = StatusApproved
	}
	now := s.Now()
	if err := s.Store.DecideMission(ctx, id, status, now); err != nil {
		return Mission{}, err
	}
	m.Status = status
	m.DecidedAt = &now
	return m, nil
}
