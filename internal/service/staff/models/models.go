package models

import (
	"errors"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

var (
	// ErrNameRequired возвращается при пустом имени мастера
	ErrNameRequired = errors.New("name is required")

	// ErrNameTooLong возвращается при слишком длинном имени
	ErrNameTooLong = errors.New("name is too long")

	// ErrInvalidServiceID возвращается при неположительном ID услуги
	ErrInvalidServiceID = errors.New("service ids must be positive")
)

// CreateStaffRequest запрос на создание мастера
type CreateStaffRequest struct {
	Name       string                 `json:"name"`
	Phone      *string                `json:"phone,omitempty"`
	ServiceIDs []int64                `json:"serviceIds"`
	Schedule   *domain.WeeklySchedule `json:"schedule,omitempty"` // если не указано, используется расписание по умолчанию
}

// Validate проверяет поля запроса, кроме расписания
func (r *CreateStaffRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return ErrNameRequired
	}
	if len(name) > domain.MaxStaffNameLength {
		return ErrNameTooLong
	}
	for _, id := range r.ServiceIDs {
		if id <= 0 {
			return ErrInvalidServiceID
		}
	}
	return nil
}

// ToDomainStaff конвертирует запрос в domain модель
func (r *CreateStaffRequest) ToDomainStaff(organizationID int64, schedule domain.WeeklySchedule) *domain.Staff {
	return &domain.Staff{
		OrganizationID: organizationID,
		Name:           strings.TrimSpace(r.Name),
		Phone:          r.Phone,
		IsActive:       true,
		Schedule:       schedule,
		ServiceIDs:     uniqueIDs(r.ServiceIDs),
	}
}

// StaffResponse ответ с данными мастера
type StaffResponse struct {
	ID             int64                 `json:"id"`
	OrganizationID int64                 `json:"organizationId"`
	Name           string                `json:"name"`
	Phone          *string               `json:"phone,omitempty"`
	IsActive       bool                  `json:"isActive"`
	ServiceIDs     []int64               `json:"serviceIds"`
	Schedule       domain.WeeklySchedule `json:"schedule"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// ScheduleResponse ответ с расписанием мастера
type ScheduleResponse struct {
	StaffID  int64                 `json:"staffId"`
	Schedule domain.WeeklySchedule `json:"schedule"`
}

// FromDomainStaff конвертирует domain модель в DTO
func FromDomainStaff(s *domain.Staff) *StaffResponse {
	if s == nil {
		return nil
	}

	serviceIDs := s.ServiceIDs
	if serviceIDs == nil {
		serviceIDs = []int64{}
	}

	return &StaffResponse{
		ID:             s.ID,
		OrganizationID: s.OrganizationID,
		Name:           s.Name,
		Phone:          s.Phone,
		IsActive:       s.IsActive,
		ServiceIDs:     serviceIDs,
		Schedule:       s.Schedule,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
