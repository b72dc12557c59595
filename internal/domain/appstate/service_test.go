package appstate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdash/internal/domain/alerts"
	"hrdash/internal/domain/core"
)

type fakeDirectory struct {
	mu        sync.Mutex
	employees []core.Employee
	calls     int
	err       error
}

func (f *fakeDirectory) ListEmployees(context.Context) ([]core.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.employees, nil
}

func (f *fakeDirectory) ListBranches(context.Context) ([]core.Branch, error) {
	return []core.Branch{{ID: "b1", Name: "HQ"}}, nil
}

func (f *fakeDirectory) ListDepartments(context.Context) ([]core.Department, error) {
	return []core.Department{{ID: "d1", Name: "Finance"}}, nil
}

type fakeAlerts struct{}

func (fakeAlerts) List(context.Context, alerts.Filter) ([]alerts.Alert, error) {
	return []alerts.Alert{{ID: "a1"}}, nil
}

func TestCurrentLoadsLazilyOnce(t *testing.T) {
	dir := &fakeDirectory{employees: []core.Employee{
		{ID: "e1", FirstName: "Mona", LastName: "Adel", Status: "Active"},
		{ID: "e2", FirstName: "Old", Status: "Inactive"},
	}}
	svc := NewService(dir, fakeAlerts{})

	snap, err := svc.Current(context.Background())
	require.NoError(t, err)
	again, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Same(t, snap, again)
	assert.Equal(t, 1, dir.calls)

	assert.Equal(t, map[string]bool{"e1": true}, snap.ActiveEmployeeIDs())
	emp, ok := snap.EmployeeByID("e2")
	require.True(t, ok)
	assert.Equal(t, "Old", emp.FirstName)
	assert.Equal(t, "Mona Adel", snap.EmployeeNames()["e1"])

	meta := snap.Meta()
	assert.Equal(t, 2, meta.Employees)
	assert.Equal(t, 1, meta.ActiveEmployees)
	assert.Equal(t, 1, meta.OpenAlerts)
}

func TestSnapshotIsIsolatedFromSource(t *testing.T) {
	source := []core.Employee{{ID: "e1", FirstName: "A", Status: "Active"}}
	dir := &fakeDirectory{employees: source}
	svc := NewService(dir, nil)

	snap, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	source[0].FirstName = "mutated"
	assert.Equal(t, "A", snap.Employees[0].FirstName)
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	dir := &fakeDirectory{employees: []core.Employee{{ID: "e1"}}}
	svc := NewService(dir, nil)
	svc.Now = func() time.Time { return time.Unix(100, 0) }
	first, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	dir.err = errors.New("db down")
	_, err = svc.Refresh(context.Background())
	require.Error(t, err)
	assert.Same(t, first, svc.Loaded())
}

func TestNilSnapshotHelpers(t *testing.T) {
	var snap *Snapshot
	assert.Empty(t, snap.ActiveEmployeeIDs())
	_, ok := snap.EmployeeByID("x")
	assert.False(t, ok)
	assert.Equal(t, Meta{}, snap.Meta())
}

func TestConcurrentRefreshAndRead(t *testing.T) {
	dir := &fakeDirectory{employees: []core.Employee{{ID: "e1", Status: "Active"}}}
	svc := NewService(dir, nil)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.Refresh(context.Background())
		}()
		go func() {
			defer wg.Done()
			snap, err := svc.Current(context.Background())
			if err == nil {
				_ = snap.ActiveEmployeeIDs()
			}
		}()
	}
	wg.Wait()
	assert.NotNil(t, svc.Loaded())
}
