package get_available_slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

var (
	// ErrStaffNotFound возвращается, когда мастер не найден в организации
	ErrStaffNotFound = fmt.Errorf("staff not found: %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена в организации
	ErrServiceNotFound = fmt.Errorf("service not found: %w", domain.ErrNotFound)

	// ErrStaffInactive возвращается, когда мастер деактивирован
	ErrStaffInactive = fmt.Errorf("staff is inactive: %w", domain.ErrValidation)

	// ErrServiceInactive возвращается, когда услуга снята с продажи
	ErrServiceInactive = fmt.Errorf("service is inactive: %w", domain.ErrValidation)

	// ErrInvalidServiceDuration возвращается, когда длительность услуги в каталоге вне допустимого диапазона
	ErrInvalidServiceDuration = fmt.Errorf("service duration is out of range: %w", domain.ErrValidation)

	// ErrServiceNotPerformed возвращается, когда мастер не оказывает услугу
	ErrServiceNotPerformed = fmt.Errorf("staff does not perform this service: %w", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
