package shared

import (
	"net/url"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate accepts a calendar day or an RFC3339 timestamp. Empty input
// yields the zero time.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return time.Time{}, nil
	case len(value) == len(DateLayout):
		return time.Parse(DateLayout, value)
	default:
		return time.Parse(time.RFC3339, value)
	}
}

// DayRange reads optional day bounds from the query. The upper bound is
// exclusive: it points at the start of the day after toKey.
func (v *Validator) DayRange(q url.Values, fromKey, toKey string) (from, to *time.Time) {
	if raw := q.Get(fromKey); raw != "" {
		if day, ok := v.Date(fromKey, raw); ok {
			from = &day
		}
	}
	if raw := q.Get(toKey); raw != "" {
		if day, ok := v.Date(toKey, raw); ok {
			end := day.AddDate(0, 0, 1)
			to = &end
		}
	}
	if from != nil && to != nil && !to.After(*from) {
		v.Add(toKey, "must be on or after "+fromKey)
	}
	return from, to
}
