package announcements

import "errors"

var (
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrTitleRequired        = errors.New("announcement title is required")
	ErrAlreadyExpired       = errors.New("announcement expiry is in the past")
)
