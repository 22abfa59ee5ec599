package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	OrganizationID int64            // ID организации (салона)
	StaffID        *int64           // ID мастера; nil - запись без назначенного мастера
	ServiceID      int64            // ID услуги
	ClientID       int64            // ID клиента
	Date           time.Time        // Календарная дата визита (время игнорируется)
	StartTime      types.TimeString // Время начала (например, "10:00")
	Notes          *string          // Комментарий (опционально)
	Force          bool             // Создать запись без мастера несмотря на предупреждение о занятом времени
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64            // ID созданной записи
	OrganizationID  int64            // ID организации
	StaffID         *int64           // ID мастера
	ServiceID       int64            // ID услуги
	ClientID        int64            // ID клиента
	Date            time.Time        // Дата визита
	StartTime       types.TimeString // Время начала
	EndTime         types.TimeString // Время окончания
	DurationMinutes int              // Длительность в минутах
	Status          string           // Статус записи

	// Денормализованные данные услуги
	ServiceName  string
	ServicePrice float64
	Notes        *string

	CreatedAt time.Time
}
