package scheduling

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// IsBooked reports whether candidate overlaps any pending or confirmed record.
// Cancelled and completed records never block.
func IsBooked(candidate domain.TimeInterval, existing []domain.BookingRecord) bool {
	for _, r := range existing {
		if !r.Status.IsActive() {
			continue
		}
		if domain.Overlaps(candidate, r.Interval()) {
			return true
		}
	}
	return false
}

// IsPast reports whether candidate starts before now.
func IsPast(candidate domain.TimeInterval, now time.Time) bool {
	return candidate.Start.Before(now)
}

// RemoveBooked keeps the candidates that do not conflict with existing.
func RemoveBooked(candidates []domain.TimeInterval, existing []domain.BookingRecord) []domain.TimeInterval {
	free := make([]domain.TimeInterval, 0, len(candidates))
	for _, c := range candidates {
		if !IsBooked(c, existing) {
			free = append(free, c)
		}
	}
	return free
}

// StartTimes returns the distinct start times of candidates, sorted ascending.
func StartTimes(candidates []domain.TimeInterval) []types.TimeString {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]types.TimeString, 0, len(candidates))
	for _, c := range candidates {
		ts := types.NewTimeString(c.Start)
		key := ts.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IsBefore(out[j]) })
	return out
}

// RemovePast drops slots that already started, but only when dayDate is today
// in dayDate's location. Slots of any other day are returned unchanged.
func RemovePast(slots []types.TimeString, dayDate, now time.Time) []types.TimeString {
	if !domain.SameCivilDate(dayDate, now, dayDate.Location()) {
		return slots
	}
	out := make([]types.TimeString, 0, len(slots))
	for _, s := range slots {
		if s.OnDate(dayDate).Before(now) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// FilterAvailable drops booked candidates, drops past ones when dayDate is today,
// and returns the remaining start times deduplicated and sorted.
func FilterAvailable(candidates []domain.TimeInterval, existing []domain.BookingRecord, now, dayDate time.Time) []types.TimeString {
	return RemovePast(StartTimes(RemoveBooked(candidates, existing)), dayDate, now)
}
