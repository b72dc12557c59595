package tasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	StoreAPI
	tasks    map[string]Task
	comments []Comment
}

func newMemStore() *memStore {
	return &memStore{tasks: map[string]Task{}}
}

func (m *memStore) Create(_ context.Context, t Task) (Task, error) {
	t.ID = "t1"
	m.tasks[t.ID] = t
	return t, nil
}

func (m *memStore) Get(_ context.Context, id string) (Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return Task{}, ErrTaskNotFound
	}
	return t, nil
}

func (m *memStore) SetStatus(_ context.Context, id string, status Status) error {
	t := m.tasks[id]
	t.Status = status
	m.tasks[id] = t
	return nil
}

func (m *memStore) AddComment(_ context.Context, c Comment) (Comment, error) {
	m.comments = append(m.comments, c)
	return c, nil
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc := NewService(newMemStore())
	task, err := svc.Create(context.Background(), Task{Title: " Onboard "})
	require.NoError(t, err)
	assert.Equal(t, "Onboard", task.Title)
	assert.Equal(t, StatusPending, task.Status)
	assert.Equal(t, PriorityMedium, task.Priority)

	_, err = svc.Create(context.Background(), Task{Title: "x", Priority: "URGENT"})
	assert.ErrorIs(t, err, ErrInvalidPriority)
	_, err = svc.Create(context.Background(), Task{Title: "x", Status: "DONE"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTransition(t *testing.T) {
	store := newMemStore()
	store.tasks["t1"] = Task{ID: "t1", Status: StatusPending}
	svc := NewService(store)

	task, err := svc.Transition(context.Background(), "t1", StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, task.Status)

	_, err = svc.Transition(context.Background(), "t1", "PAUSED")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.Transition(context.Background(), "t1", StatusCompleted)
	require.NoError(t, err)
	_, err = svc.Transition(context.Background(), "t1", StatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Transition(context.Background(), "missing", StatusPending)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestCommentAppends(t *testing.T) {
	store := newMemStore()
	store.tasks["t1"] = Task{ID: "t1"}
	svc := NewService(store)

	_, err := svc.Comment(context.Background(), "t1", "e1", "  ")
	assert.ErrorIs(t, err, ErrCommentEmpty)

	c, err := svc.Comment(context.Background(), "t1", "e1", " first ")
	require.NoError(t, err)
	assert.Equal(t, "first", c.Body)
	assert.Equal(t, "e1", c.EmployeeID)

	_, err = svc.Comment(context.Background(), "nope", "e1", "x")
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.Len(t, store.comments, 1)
}
