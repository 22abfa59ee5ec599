package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetActiveByStaffAndDate(ctx context.Context, organizationID, staffID int64, date time.Time) ([]domain.BookingRecord, error)
	CountActiveAtTime(ctx context.Context, organizationID int64, date time.Time, startTime types.TimeString) (int, error)
}

// StaffRepository интерфейс репозитория мастеров
// Внутри транзакции GetByID блокирует строку мастера
type StaffRepository interface {
	GetByID(ctx context.Context, organizationID, id int64) (*domain.Staff, error)
}

// ServiceRepository интерфейс каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, organizationID, id int64) (*domain.Service, error)
}

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	GetByID(ctx context.Context, organizationID, id int64) (*domain.Client, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotsCache сбрасывает закэшированные слоты мастера на день
type SlotsCache interface {
	InvalidateDay(ctx context.Context, organizationID, staffID int64, date time.Time) error
}

// Notifier отправляет уведомления без ожидания результата
type Notifier interface {
	Notify(event domain.EventType, appt domain.Appointment)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
