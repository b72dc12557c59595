package tasks

import "errors"

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTitleRequired     = errors.New("task title is required")
	ErrInvalidStatus     = errors.New("invalid task status")
	ErrInvalidPriority   = errors.New("invalid task priority")
	ErrInvalidTransition = errors.New("task status cannot change from a terminal state")
	ErrCommentEmpty      = errors.New("comment body is required")
)
