package announcements

import (
	"context"
	"time"
)

type StoreAPI interface {
	Create(ctx context.Context, a Announcement) (Announcement, error)
	ListActive(ctx context.Context, now time.Time) ([]Announcement, error)
	Deactivate(ctx context.Context, id string) error
}

var _ StoreAPI = (*Store)(nil)
