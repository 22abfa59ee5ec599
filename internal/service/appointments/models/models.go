package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidPeriod возвращается, если начало периода позже конца
	ErrInvalidPeriod = errors.New("startDate must not be after endDate")

	// ErrReasonTooLong возвращается при слишком длинной причине отмены
	ErrReasonTooLong = errors.New("cancellation reason is too long")
)

// Request модели

// CancelRequest запрос на отмену записи салоном
type CancelRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ClientCancelRequest запрос на отмену записи клиентом
type ClientCancelRequest struct {
	ClientID int64   `json:"clientId"`
	Reason   *string `json:"reason,omitempty"`
}

// GetOrganizationAppointmentsRequest запрос на получение записей организации
type GetOrganizationAppointmentsRequest struct {
	OrganizationID  int64      `json:"organizationId"`
	StaffID         *int64     `json:"staffId,omitempty"`         // Фильтр по мастеру (опционально)
	ClientID        *int64     `json:"clientId,omitempty"`        // Фильтр по клиенту (опционально)
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые и завершённые записи
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetOrganizationAppointmentsRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		OrganizationID:  r.OrganizationID,
		StaffID:         r.StaffID,
		ClientID:        r.ClientID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.StartDate != nil && r.EndDate != nil && r.StartDate.After(*r.EndDate) {
		return filter, ErrInvalidPeriod
	}

	if r.Status != nil {
		status, err := ToDomainAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// ValidateReason проверяет длину причины отмены
func ValidateReason(reason *string) error {
	if reason != nil && len(*reason) > domain.MaxCancellationReasonLength {
		return ErrReasonTooLong
	}
	return nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64  `json:"id"`
	OrganizationID  int64  `json:"organizationId"`
	StaffID         *int64 `json:"staffId"`
	ServiceID       int64  `json:"serviceId"`
	ClientID        int64  `json:"clientId"`
	Date            string `json:"date"`      // "2025-03-12"
	StartTime       string `json:"startTime"` // "14:00"
	EndTime         string `json:"endTime"`   // "15:00"
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`

	// Денормализованные данные
	ServiceName  string  `json:"serviceName"`
	ServicePrice float64 `json:"servicePrice"`
	Notes        *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		OrganizationID:     a.OrganizationID,
		StaffID:            a.StaffID,
		ServiceID:          a.ServiceID,
		ClientID:           a.ClientID,
		Date:               a.Date.Format(domain.DateFormat),
		StartTime:          a.StartTime.String(),
		EndTime:            a.EndAt.Format(domain.TimeFormat),
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		ServiceName:        a.ServiceName,
		ServicePrice:       a.ServicePrice,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, appt := range appointments {
		if apptResp := FromDomainAppointment(appt); apptResp != nil {
			resp.Appointments = append(resp.Appointments, *apptResp)
		}
	}

	return resp
}

// ToDomainAppointmentStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
