package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, organizationID, id int64) (*domain.Appointment, error)
	GetByOrganizationWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatusIfCurrent(ctx context.Context, t domain.StatusTransition) (*domain.Appointment, error)
}

// SlotsCache сбрасывает закэшированные слоты мастера на день
type SlotsCache interface {
	InvalidateDay(ctx context.Context, organizationID, staffID int64, date time.Time) error
}

// Notifier отправляет уведомления без ожидания результата
type Notifier interface {
	Notify(event domain.EventType, appt domain.Appointment)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
