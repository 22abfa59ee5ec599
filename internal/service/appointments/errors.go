package appointments

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена в организации
	ErrAppointmentNotFound = fmt.Errorf("appointment not found: %w", domain.ErrNotFound)

	// ErrNotFoundOrAlreadyProcessed возвращается, когда запись отсутствует или уже не в нужном статусе
	ErrNotFoundOrAlreadyProcessed = fmt.Errorf("appointment: %w", domain.ErrNotFoundOrAlreadyProcessed)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
