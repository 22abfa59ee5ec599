package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending           AppointmentStatus = "pending"
	StatusConfirmed         AppointmentStatus = "confirmed"
	StatusCompleted         AppointmentStatus = "completed"
	StatusCancelledByClient AppointmentStatus = "cancelled_by_client"
	StatusCancelledBySalon  AppointmentStatus = "cancelled_by_salon"
)

// IsValid returns true for a known status
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelledByClient, StatusCancelledBySalon:
		return true
	}
	return false
}

// IsActive returns true if the status blocks the staff member's time
func (s AppointmentStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal returns true if no transition out of the status is allowed
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelledByClient || s == StatusCancelledBySalon
}

// Appointment represents a booked visit
type Appointment struct {
	ID             int64
	OrganizationID int64
	StaffID        *int64 // nil для записи без назначенного мастера
	ServiceID      int64
	ClientID       int64

	Date            time.Time        // календарная дата в канонической зоне
	StartTime       types.TimeString // "HH:MM"
	StartAt         time.Time
	EndAt           time.Time
	DurationMinutes int
	Status          AppointmentStatus

	// Denormalized data for history
	ServiceName  string
	ServicePrice float64
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment is in an active state
func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// Interval returns the occupied time range
func (a *Appointment) Interval() TimeInterval {
	return TimeInterval{Start: a.StartAt, End: a.EndAt}
}

// Record returns the projection used by conflict detection
func (a *Appointment) Record() BookingRecord {
	return BookingRecord{
		StaffID:         a.StaffID,
		Start:           a.StartAt,
		DurationMinutes: a.DurationMinutes,
		Status:          a.Status,
	}
}

// BookingRecord read-only projection of an appointment used by the scheduler
type BookingRecord struct {
	StaffID         *int64
	Start           time.Time
	DurationMinutes int
	Status          AppointmentStatus
}

// Interval returns [Start, Start+DurationMinutes)
func (r BookingRecord) Interval() TimeInterval {
	return TimeInterval{
		Start: r.Start,
		End:   r.Start.Add(time.Duration(r.DurationMinutes) * time.Minute),
	}
}

// AppointmentsFilter фильтр для получения записей организации
type AppointmentsFilter struct {
	OrganizationID  int64              // Обязательный параметр
	StaffID         *int64             // Фильтр по мастеру (опционально)
	ClientID        *int64             // Фильтр по клиенту (опционально)
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отменённые и завершённые записи
}

// StatusTransition условное изменение статуса: применяется, только если текущий статус входит в From
type StatusTransition struct {
	OrganizationID int64
	AppointmentID  int64
	ClientID       *int64 // если указан, запись должна принадлежать этому клиенту
	From           []AppointmentStatus
	To             AppointmentStatus
	Reason         *string
}

// IsCancellation returns true if the transition cancels the appointment
func (t StatusTransition) IsCancellation() bool {
	return t.To == StatusCancelledByClient || t.To == StatusCancelledBySalon
}
