package domain

import "time"

// Staff is a salon employee who performs services
type Staff struct {
	ID             int64
	OrganizationID int64
	Name           string
	Phone          *string
	IsActive       bool
	Schedule       WeeklySchedule
	ServiceIDs     []int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Performs returns true if the staff member performs serviceID
func (s *Staff) Performs(serviceID int64) bool {
	for _, id := range s.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}
