package integrity

import "context"

type StoreAPI interface {
	Subjects(ctx context.Context) ([]Subject, error)
	AlertRefs(ctx context.Context) ([]AlertRef, error)
	Upsert(ctx context.Context, entry Entry) error
	List(ctx context.Context) ([]Entry, error)
}

var _ StoreAPI = (*Store)(nil)
