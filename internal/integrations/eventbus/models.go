package eventbus

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// AppointmentEvent тело сообщения о смене жизненного цикла записи.
// Внешний планировщик напоминаний читает его по ключу organization_id:appointment_id.
type AppointmentEvent struct {
	EventID        string    `json:"eventId"`
	EventType      string    `json:"eventType"`
	OccurredAt     time.Time `json:"occurredAt"`
	AppointmentID  int64     `json:"appointmentId"`
	OrganizationID int64     `json:"organizationId"`
	StaffID        *int64    `json:"staffId,omitempty"`
	ServiceID      int64     `json:"serviceId"`
	ClientID       int64     `json:"clientId"`
	Status         string    `json:"status"`
	StartAt        time.Time `json:"startAt"`
	EndAt          time.Time `json:"endAt"`
}

func newAppointmentEvent(id string, event domain.EventType, appt domain.Appointment, now time.Time) AppointmentEvent {
	return AppointmentEvent{
		EventID:        id,
		EventType:      string(event),
		OccurredAt:     now,
		AppointmentID:  appt.ID,
		OrganizationID: appt.OrganizationID,
		StaffID:        appt.StaffID,
		ServiceID:      appt.ServiceID,
		ClientID:       appt.ClientID,
		Status:         string(appt.Status),
		StartAt:        appt.StartAt,
		EndAt:          appt.EndAt,
	}
}
