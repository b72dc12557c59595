package leave

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	StoreAPI
	requests map[string]Request
	missions map[string]Mission
}

func newMemStore() *memStore {
	return &memStore{requests: map[string]Request{}, missions: map[string]Mission{}}
}

func (m *memStore) CreateRequest(_ context.Context, r Request) (Request, error) {
	r.ID = "l1"
	m.requests[r.ID] = r
	return r, nil
}

func (m *memStore) GetRequest(_ context.Context, id string) (Request, error) {
	r, ok := m.requests[id]
	if !ok {
		return Request{}, ErrRequestNotFound
	}
	return r, nil
}

func (m *memStore) DecideRequest(_ context.Context, id, status string, at time.Time) error {
	r := m.requests[id]
	r.Status = status
	r.DecidedAt = &at
	m.requests[id] = r
	return nil
}

func (m *memStore) CreateMission(_ context.Context, ms Mission) (Mission, error) {
	ms.ID = "m1"
	m.missions[ms.ID] = ms
	return ms, nil
}

func (m *memStore) GetMission(_ context.Context, id string) (Mission, error) {
	ms, ok := m.missions[id]
	if !ok {
		return Mission{}, ErrMissionNotFound
	}
	return ms, nil
}

func (m *memStore) DecideMission(_ context.Context, id, status string, _ time.Time) error {
	ms := m.missions[id]
	ms.Status = status
	m.missions[id] = ms
	return nil
}

func day(d int) time.Time {
	return time.Date(2026, 5, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateRequestComputesInclusiveDays(t *testing.T) {
	svc := NewService(newMemStore())
	req, err := svc.CreateRequest(context.Background(), Request{EmployeeID: "e1", LeaveType: "annual", StartDate: day(4), EndDate: day(8)})
	require.NoError(t, err)
	assert.Equal(t, 5.0, req.Days)
	assert.Equal(t, TypeAnnual, req.LeaveType)
	assert.Equal(t, StatusPending, req.Status)

	_, err = svc.CreateRequest(context.Background(), Request{LeaveType: "vacation", StartDate: day(1), EndDate: day(1)})
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = svc.CreateRequest(context.Background(), Request{LeaveType: TypeSick, StartDate: day(3), EndDate: day(1)})
	assert.Error(t, err)
}

func TestDecideOnlyMovesPending(t *testing.T) {
	store := newMemStore()
	store.requests["l1"] = Request{ID: "l1", EmployeeID: "e1", Status: StatusPending}
	svc := NewService(store)

	req, err := svc.Decide(context.Background(), "l1", true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, req.Status)
	assert.NotNil(t, req.DecidedAt)

	_, err = svc.Decide(context.Background(), "l1", false)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCancelRequiresOwner(t *testing.T) {
	store := newMemStore()
	store.requests["l1"] = Request{ID: "l1", EmployeeID: "e1", Status: StatusPending}
	svc := NewService(store)

	assert.ErrorIs(t, svc.Cancel(context.Background(), "l1", "e2"), ErrForbidden)
	require.NoError(t, svc.Cancel(context.Background(), "l1", "e1"))
	assert.Equal(t, StatusCancelled, store.requests["l1"].Status)
}

func TestMissionLifecycle(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	_, err := svc.CreateMission(context.Background(), Mission{EmployeeID: "e1", StartDate: day(1), EndDate: day(2)})
	assert.ErrorIs(t, err, ErrDestinationEmpty)

	m, err := svc.CreateMission(context.Background(), Mission{EmployeeID: "e1", Destination: " Alexandria ", StartDate: day(1), EndDate: day(2)})
	require.NoError(t, err)
	assert.Equal(t, "Alexandria", m.Destination)

	m, err = svc.DecideMission(context.Background(), m.ID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, m.Status)
}
