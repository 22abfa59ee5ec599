// Package scheduling generates candidate appointment slots and filters them against existing bookings.
package scheduling

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// GenerateSlots enumerates [cursor, cursor+duration) intervals inside shift on dayDate,
// advancing the cursor by granularity. A slot that would end after the shift is never emitted.
// dayDate must be midnight of the civil day in the canonical location.
func GenerateSlots(shift domain.Shift, durationMinutes, granularityMinutes int, dayDate time.Time) []domain.TimeInterval {
	if durationMinutes <= 0 || granularityMinutes <= 0 {
		return nil
	}

	end := shift.End.Minutes()
	slots := make([]domain.TimeInterval, 0)
	for cursor := shift.Start.Minutes(); cursor+durationMinutes <= end; cursor += granularityMinutes {
		start := atMinute(dayDate, cursor)
		slots = append(slots, domain.TimeInterval{
			Start: start,
			End:   atMinute(dayDate, cursor+durationMinutes),
		})
	}
	return slots
}

// GenerateDaySlots runs GenerateSlots per shift and concatenates the results.
// Duplicates across shifts are left for the caller to remove.
func GenerateDaySlots(shifts []domain.Shift, durationMinutes, granularityMinutes int, dayDate time.Time) []domain.TimeInterval {
	var all []domain.TimeInterval
	for _, s := range shifts {
		all = append(all, GenerateSlots(s, durationMinutes, granularityMinutes, dayDate)...)
	}
	return all
}

// atMinute returns the wall-clock instant minute minutes after midnight of day
func atMinute(day time.Time, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minute/60, minute%60, 0, 0, day.Location())
}
