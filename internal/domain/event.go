package domain

// EventType identifies an appointment lifecycle event sent to notification channels
type EventType string

const (
	EventAppointmentCreated   EventType = "appointment.created"
	EventAppointmentConfirmed EventType = "appointment.confirmed"
	EventAppointmentCancelled EventType = "appointment.cancelled"
)
