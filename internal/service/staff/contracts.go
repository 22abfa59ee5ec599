package staff

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// StaffRepository интерфейс репозитория мастеров
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.Staff) (*domain.Staff, error)
	GetByID(ctx context.Context, organizationID, id int64) (*domain.Staff, error)
	UpdateSchedule(ctx context.Context, organizationID, id int64, schedule domain.WeeklySchedule) error
}

// ServiceRepository интерфейс репозитория каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, organizationID, id int64) (*domain.Service, error)
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotsCache интерфейс кэша свободных слотов
type SlotsCache interface {
	InvalidateStaff(ctx context.Context, organizationID, staffID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
