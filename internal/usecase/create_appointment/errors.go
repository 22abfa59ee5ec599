package create_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

var (
	// ErrStaffNotFound возвращается, когда мастер не найден в организации
	ErrStaffNotFound = fmt.Errorf("create_appointment: staff not found: %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена в организации
	ErrServiceNotFound = fmt.Errorf("create_appointment: service not found: %w", domain.ErrNotFound)

	// ErrClientNotFound возвращается, когда клиент не найден в организации
	ErrClientNotFound = fmt.Errorf("create_appointment: client not found: %w", domain.ErrNotFound)

	// ErrStaffInactive возвращается, когда мастер деактивирован
	ErrStaffInactive = fmt.Errorf("create_appointment: staff is inactive: %w", domain.ErrValidation)

	// ErrServiceInactive возвращается, когда услуга снята с продажи
	ErrServiceInactive = fmt.Errorf("create_appointment: service is inactive: %w", domain.ErrValidation)

	// ErrInvalidServiceDuration возвращается, когда длительность услуги в каталоге вне допустимого диапазона
	ErrInvalidServiceDuration = fmt.Errorf("create_appointment: service duration is out of range: %w", domain.ErrValidation)

	// ErrServiceNotPerformed возвращается, когда мастер не оказывает услугу
	ErrServiceNotPerformed = fmt.Errorf("create_appointment: staff does not perform this service: %w", domain.ErrValidation)

	// ErrOutsideWorkingHours возвращается, когда визит не помещается целиком в одну смену мастера
	ErrOutsideWorkingHours = fmt.Errorf("create_appointment: time is outside working hours: %w", domain.ErrValidation)

	// ErrInvalidTimeSlot возвращается, когда визит заканчивается после полуночи
	ErrInvalidTimeSlot = fmt.Errorf("create_appointment: appointment must end on the same day: %w", domain.ErrValidation)

	// ErrTimeInPast возвращается при попытке записаться на уже прошедшее время
	ErrTimeInPast = fmt.Errorf("create_appointment: time is in the past: %w", domain.ErrValidation)

	// ErrSlotUnavailable возвращается, когда время мастера уже занято (в том числе конкурентным запросом)
	ErrSlotUnavailable = fmt.Errorf("create_appointment: slot no longer available: %w", domain.ErrConflict)

	// ErrOrganizationSlotTaken мягкое предупреждение для записи без мастера: на это время уже есть запись.
	// Снимается флагом Force.
	ErrOrganizationSlotTaken = fmt.Errorf("create_appointment: organization already has an appointment at this time: %w", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("create_appointment: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
