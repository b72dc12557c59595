package leave

import "time"

// CalculateDays returns inclusive day count between start and end. Only the
// calendar date of each bound counts.
func CalculateDays(start, end time.Time) (float64, error) {
	start, end = dateOnly(start), dateOnly(end)
	if end.Before(start) {
		return 0, ErrInvalidRange
	}
	return end.Sub(start).Hours()/24 + 1, nil
}

// CalculateRequestDays returns inclusive leave day count with optional half-day start/end boundaries.
func CalculateRequestDays(start, end time.Time, startHalf, endHalf bool) (float64, error) {
	days, err := CalculateDays(start, end)
	if err != nil {
		return 0, err
	}

	sameDay := dateOnly(start).Equal(dateOnly(end))
	if sameDay && startHalf && endHalf {
		return 0, ErrInvalidRange
	}

	if startHalf {
		days -= 0.5
	}
	if endHalf {
		days -= 0.5
	}
	if days <= 0 {
		return 0, ErrInvalidRange
	}
	return days, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
