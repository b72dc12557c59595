package alerts

import "context"

type StoreAPI interface {
	List(ctx context.Context, filter Filter) ([]Alert, error)
	Create(ctx context.Context, alert Alert) (Alert, error)
	MarkRead(ctx context.Context, id string) error
	Resolve(ctx context.Context, id string) error
	CountOpen(ctx context.Context) (int, error)
}

var _ StoreAPI = (*Store)(nil)
