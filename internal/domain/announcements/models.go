package announcements

import "time"

const (
	PriorityLow    = "LOW"
	PriorityNormal = "NORMAL"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

type Announcement struct {
	ID        string     `json:"id"`
	Title     string     `json:"title" validate:"required,max=200"`
	Body      string     `json:"body" validate:"max=5000"`
	Priority  string     `json:"priority" validate:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
	IsActive  bool       `json:"isActive"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedBy string     `json:"createdBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Visible reports whether a reader should see the announcement at now.
func (a Announcement) Visible(now time.Time) bool {
	return a.IsActive && (a.ExpiresAt == nil || a.ExpiresAt.After(now))
}
