package appointment

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotConflict возвращается, когда БД отклонила запись из-за пересечения с активной записью
	ErrSlotConflict = errors.New("appointment.repository: slot conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)

// Коды ошибок PostgreSQL, означающие конкурентное занятие слота
const (
	pqUniqueViolation      = "23505"
	pqExclusionViolation   = "23P01"
	pqSerializationFailure = "40001"
)

// IsSlotConflict проверяет, что ошибка вызвана уникальным индексом (staff_id, start_at),
// ограничением на пересечение интервалов или конфликтом сериализации
func IsSlotConflict(err error) bool {
	if errors.Is(err, ErrSlotConflict) {
		return true
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case pqUniqueViolation, pqExclusionViolation, pqSerializationFailure:
		return true
	}
	return false
}
