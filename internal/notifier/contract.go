package notifier

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	GetByID(ctx context.Context, organizationID, id int64) (*domain.Client, error)
}

// MessageSender интерфейс отправки WhatsApp сообщений
type MessageSender interface {
	SendTemplate(ctx context.Context, to, templateName string, parameters []string) (string, error)
}

// EventPublisher интерфейс публикации событий в шину
type EventPublisher interface {
	Publish(ctx context.Context, event domain.EventType, appt domain.Appointment) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
