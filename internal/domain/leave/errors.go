package leave

import "errors"

var (
	ErrRequestNotFound  = errors.New("leave request not found")
	ErrMissionNotFound  = errors.New("mission not found")
	ErrInvalidType      = errors.New("invalid leave type")
	ErrInvalidState     = errors.New("request already decided")
	ErrForbidden        = errors.New("forbidden")
	ErrDestinationEmpty = errors.New("mission destination is required")
	ErrInvalidRange     = errors.New("invalid date range")
)
