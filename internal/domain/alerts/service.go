package alerts

import (
	"context"
	"strings"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Alert, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.Store.List(ctx, filter)
}

func (s *Service) Raise(ctx context.Context, alert Alert) (Alert, error) {
	alert.Type = strings.ToUpper(strings.TrimSpace(alert.Type))
	if alert.Type == "" {
		return Alert{}, ErrTypeRequired
	}
	alert.Severity = strings.ToUpper(strings.TrimSpace(alert.Severity))
	if alert.Severity == "" {
		alert.Severity = SeverityMedium
	}
	if !ValidSeverity(alert.Severity) {
		return Alert{}, ErrInvalidSeverity
	}
	alert.EmployeeName = strings.TrimSpace(alert.EmployeeName)
	return s.Store.Create(ctx, alert)
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	return s.Store.MarkRead(ctx, id)
}

func (s *Service) Resolve(ctx context.Context, id string) error {
	return s.Store.Resolve(ctx, id)
}

func (s *Service) CountOpen(ctx context.Context) (int, error) {
	return s.Store.CountOpen(ctx)
}

func ValidSeverity(severity string) bool {
	switch severity {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}
