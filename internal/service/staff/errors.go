package staff

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

var (
	// ErrStaffNotFound возвращается, когда мастер не найден в организации
	ErrStaffNotFound = fmt.Errorf("staff not found: %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда привязываемая услуга не найдена в организации
	ErrServiceNotFound = fmt.Errorf("service not found: %w", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("invalid input data: %w", domain.ErrValidation)

	// ErrInvalidSchedule возвращается, если расписание нарушает правила смен
	ErrInvalidSchedule = fmt.Errorf("invalid schedule: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
