package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// Request модель запроса на получение свободных слотов мастера
type Request struct {
	OrganizationID int64     // ID организации (салона)
	StaffID        int64     // ID мастера
	ServiceID      int64     // ID услуги
	Date           time.Time // Календарная дата (время игнорируется)
}

// Response модель ответа со списком свободных слотов
type Response struct {
	Date      time.Time          // Дата в канонической зоне
	StaffID   int64              // ID мастера
	ServiceID int64              // ID услуги
	Slots     []types.TimeString // Время начала свободных слотов, по возрастанию, без повторов
}
