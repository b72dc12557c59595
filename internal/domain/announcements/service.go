package announcements

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

func (s *Service) Post(ctx context.Context, a Announcement) (Announcement, error) {
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		return Announcement{}, ErrTitleRequired
	}
	a.Priority = strings.ToUpper(strings.TrimSpace(a.Priority))
	if a.Priority == "" {
		a.Priority = PriorityNormal
	}
	if a.ExpiresAt != nil && !a.ExpiresAt.After(s.Now()) {
		return Announcement{}, ErrAlreadyExpired
	}
	return s.Store.Create(ctx, a)
}

// ListActive re-applies the visibility rule in memory so rows that expired
// between query and response are dropped.
func (s *Service) ListActive(ctx context.Context) ([]Announcement, error) {
	now := s.Now()
	items, err := s.Store.ListActive(ctx, now)
	if err != nil {
		return nil, err
	}
	out := items[:0]
	for _, a := range items {
		if a.Visible(now) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	return s.Store.Deactivate(ctx, id)
}
