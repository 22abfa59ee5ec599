package domain

// Service is a catalog entry; the scheduler only needs its duration
type Service struct {
	ID              int64
	OrganizationID  int64
	Name            string
	DurationMinutes int
	Price           float64
	IsActive        bool
}

// HasValidDuration reports whether the duration is positive and fits MaxServiceDurationMinutes.
func (s *Service) HasValidDuration() bool {
	return s.DurationMinutes > 0 && s.DurationMinutes <= MaxServiceDurationMinutes
}
