package tasks

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

func (s *Service) Create(ctx context.Context, t Task) (Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return Task{}, ErrTitleRequired
	}
	if t.Status == "" {
		t.Status = StatusPending
	}
	if !t.Status.Valid() {
		return Task{}, ErrInvalidStatus
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if !t.Priority.Valid() {
		return Task{}, ErrInvalidPriority
	}
	return s.Store.Create(ctx, t)
}

func (s *Service) Get(ctx context.Context, id string) (Task, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Task, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.Store.List(ctx, filter)
}

func (s *Service) Update(ctx context.Context, t Task) error {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return ErrTitleRequired
	}
	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}
	return s.Store.Update(ctx, t)
}

// Transition moves a task to status. Completed and cancelled tasks are final.
func (s *Service) Transition(ctx context.Context, id string, status Status) (Task, error) {
	if !status.Valid() {
		return Task{}, ErrInvalidStatus
	}
	current, err := s.Store.Get(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if current.Status == status {
		return current, nil
	}
	if current.Status.Terminal() {
		return Task{}, ErrInvalidTransition
	}
	if err := s.Store.SetStatus(ctx, id, status); err != nil {
		return Task{}, err
	}
	current.Status = status
	return current, nil
}

// Comment appends a comment authored by employeeID. Comments are never edited.
func (s *Service) Comment(ctx context.Context, taskID, employeeID, body string) (Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return Comment{}, ErrCommentEmpty
	}
	if _, err := s.Store.Get(ctx, taskID); err != nil {
		return Comment{}, err
	}
	return s.Store.AddComment(ctx, Comment{TaskID: taskID, EmployeeID: employeeID, Body: body})
}

func (s *Service) Comments(ctx context.Context, taskID string) ([]Comment, error) {
	return s.Store.ListComments(ctx, taskID)
}
