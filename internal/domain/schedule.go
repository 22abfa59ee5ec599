package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// Shift is a contiguous working period within one day. Overnight shifts are not supported.
type Shift struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// Minutes returns the shift length.
func (s Shift) Minutes() int {
	return s.End.Minutes() - s.Start.Minutes()
}

// Interval places the shift on date (midnight in the canonical location).
func (s Shift) Interval(date time.Time) TimeInterval {
	return TimeInterval{Start: s.Start.OnDate(date), End: s.End.OnDate(date)}
}

// DaySchedule holds zero, one or two shifts. A second shift is simply absent when not worked.
type DaySchedule struct {
	IsOff  bool    `json:"isOff"`
	Shifts []Shift `json:"shifts"`
}

// WeeklySchedule maps every weekday to its DaySchedule. All seven days are mandatory.
type WeeklySchedule struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// Day returns the schedule for weekday.
func (w WeeklySchedule) Day(weekday time.Weekday) DaySchedule {
	switch weekday {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	default:
		return w.Sunday
	}
}

// ShiftsFor returns the shifts worked on weekday in stored order.
// Empty when the day is off or has no shifts. Ordering is guaranteed by Validate at write time.
func ShiftsFor(schedule WeeklySchedule, weekday time.Weekday) []Shift {
	day := schedule.Day(weekday)
	if day.IsOff || len(day.Shifts) == 0 {
		return nil
	}
	return day.Shifts
}

// Validate checks the invariants every stored schedule must hold.
func (w WeeklySchedule) Validate() error {
	for _, wd := range []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
	} {
		if err := w.Day(wd).validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrValidation, weekdayKey(wd), err)
		}
	}
	return nil
}

func (d DaySchedule) validate() error {
	if d.IsOff {
		if len(d.Shifts) > 0 {
			return fmt.Errorf("day off must not have shifts")
		}
		return nil
	}
	if len(d.Shifts) > MaxShiftsPerDay {
		return fmt.Errorf("at most %d shifts per day, got %d", MaxShiftsPerDay, len(d.Shifts))
	}
	for i, s := range d.Shifts {
		if s.Start.IsZero() || s.End.IsZero() {
			return fmt.Errorf("shift %d: start and end are required", i+1)
		}
		if !s.Start.IsBefore(s.End) {
			return fmt.Errorf("shift %d: start %s must be before end %s", i+1, s.Start, s.End)
		}
		if i > 0 && s.Start.IsBefore(d.Shifts[i-1].End) {
			return fmt.Errorf("shift %d: starts at %s before previous shift ends at %s", i+1, s.Start, d.Shifts[i-1].End)
		}
	}
	return nil
}

// UnmarshalJSON rejects schedules that omit a weekday.
func (w *WeeklySchedule) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	days := map[string]*DaySchedule{
		"monday":    &w.Monday,
		"tuesday":   &w.Tuesday,
		"wednesday": &w.Wednesday,
		"thursday":  &w.Thursday,
		"friday":    &w.Friday,
		"saturday":  &w.Saturday,
		"sunday":    &w.Sunday,
	}
	for key, day := range days {
		msg, ok := raw[key]
		if !ok {
			return fmt.Errorf("%w: weekly schedule is missing %q", ErrValidation, key)
		}
		if err := json.Unmarshal(msg, day); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrValidation, key, err)
		}
	}
	return nil
}

// DefaultWeeklySchedule is assigned to new staff: Mon-Fri 08:00-18:00, Sat 08:00-14:00, Sun off.
func DefaultWeeklySchedule() WeeklySchedule {
	weekday := DaySchedule{Shifts: []Shift{{
		Start: types.MustTimeString("08:00"),
		End:   types.MustTimeString("18:00"),
	}}}
	return WeeklySchedule{
		Monday:    weekday,
		Tuesday:   cloneDay(weekday),
		Wednesday: cloneDay(weekday),
		Thursday:  cloneDay(weekday),
		Friday:    cloneDay(weekday),
		Saturday: DaySchedule{Shifts: []Shift{{
			Start: types.MustTimeString("08:00"),
			End:   types.MustTimeString("14:00"),
		}}},
		Sunday: DaySchedule{IsOff: true, Shifts: []Shift{}},
	}
}

func cloneDay(d DaySchedule) DaySchedule {
	shifts := make([]Shift, len(d.Shifts))
	copy(shifts, d.Shifts)
	return DaySchedule{IsOff: d.IsOff, Shifts: shifts}
}

func weekdayKey(wd time.Weekday) string {
	switch wd {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}
