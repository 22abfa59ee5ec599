package domain

import (
	"fmt"
	"time"
)

// TimeInterval is a half-open range [Start, End). Start is always before End.
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// NewTimeInterval builds [start, start+durationMinutes).
func NewTimeInterval(start time.Time, durationMinutes int) (TimeInterval, error) {
	if durationMinutes <= 0 {
		return TimeInterval{}, fmt.Errorf("%w: duration must be positive, got %d", ErrValidation, durationMinutes)
	}
	return TimeInterval{
		Start: start,
		End:   start.Add(time.Duration(durationMinutes) * time.Minute),
	}, nil
}

// Duration returns the interval length.
func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether a and b share any instant.
// Touching intervals ([10:00,11:00) and [11:00,12:00)) do not overlap.
func Overlaps(a, b TimeInterval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Contains reports whether inner lies entirely within outer.
func Contains(outer, inner TimeInterval) bool {
	return !inner.Start.Before(outer.Start) && !inner.End.After(outer.End)
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SameCivilDate reports whether a and b fall on the same calendar day in loc.
func SameCivilDate(a, b time.Time, loc *time.Location) bool {
	y1, m1, d1 := a.In(loc).Date()
	y2, m2, d2 := b.In(loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
