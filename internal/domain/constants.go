package domain

// SlotGranularityMinutes step between candidate slot starts
const SlotGranularityMinutes = 30

// Business validation constants
const (
	MaxShiftsPerDay             = 2
	MaxServiceDurationMinutes   = 720 // 12 hours
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxStaffNameLength          = 255
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, которые занимают время мастера
// Используются при поиске пересечений и в ограничениях БД
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses статусы, которые никогда не блокируют слот
var InactiveStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelledByClient,
	StatusCancelledBySalon,
}
