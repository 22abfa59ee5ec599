package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetActiveByStaffAndDate получает активные записи мастера на дату
	GetActiveByStaffAndDate(ctx context.Context, organizationID, staffID int64, date time.Time) ([]domain.BookingRecord, error)
}

// StaffRepository интерфейс репозитория мастеров
type StaffRepository interface {
	GetByID(ctx context.Context, organizationID, id int64) (*domain.Staff, error)
}

// ServiceRepository интерфейс каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, organizationID, id int64) (*domain.Service, error)
}

// SlotsCache кэш свободных слотов (опционально)
type SlotsCache interface {
	Get(ctx context.Context, organizationID, staffID int64, date time.Time, serviceID int64) ([]types.TimeString, bool, error)
	// Generation возвращает поколение дня; берется до чтения записей из БД
	Generation(ctx context.Context, organizationID, staffID int64, date time.Time) (int64, error)
	// Set пропускает запись, если поколение дня изменилось
	Set(ctx context.Context, organizationID, staffID int64, date time.Time, serviceID int64, generation int64, slots []types.TimeString) error
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
