package leave

import (
	"context"
	"time"
)

type StoreAPI interface {
	CreateRequest(ctx context.Context, req Request) (Request, error)
	GetRequest(ctx context.Context, id string) (Request, error)
	ListRequests(ctx context.Context, filter Filter) ([]Request, error)
	DecideRequest(ctx context.Context, id, status string, at time.Time) error
	CountPending(ctx context.Context) (int, error)

	CreateMission(ctx context.Context, m Mission) (Mission, error)
	GetMission(ctx context.Context, id string) (Mission, error)
	ListMissions(ctx context.Context, filter Filter) ([]Mission, error)
	DecideMission(ctx context.Context, id, status string, at time.Time) error
}

var _ StoreAPI = (*Store)(nil)
