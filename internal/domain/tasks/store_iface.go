package tasks

import "context"

type StoreAPI interface {
	Create(ctx context.Context, t Task) (Task, error)
	Get(ctx context.Context, id string) (Task, error)
	List(ctx context.Context, filter Filter) ([]Task, error)
	Update(ctx context.Context, t Task) error
	SetStatus(ctx context.Context, id string, status Status) error
	AddComment(ctx context.Context, c Comment) (Comment, error)
	ListComments(ctx context.Context, taskID string) ([]Comment, error)
}

var _ StoreAPI = (*Store)(nil)
