package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/catalog"
	staffRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SalonService/internal/scheduling"
	"github.com/m04kA/SMC-SalonService/pkg/metrics"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// UseCase use case для получения свободных слотов мастера на день
type UseCase struct {
	appointmentRepo AppointmentRepository
	staffRepo       StaffRepository
	serviceRepo     ServiceRepository
	cache           SlotsCache
	metrics         *metrics.Metrics
	timeProvider    TimeProvider
	loc             *time.Location
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// loc - каноническая временная зона салонов, в которой считаются даты и "сегодня"
func NewUseCase(
	appointmentRepo AppointmentRepository,
	staffRepo StaffRepository,
	serviceRepo ServiceRepository,
	loc *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		staffRepo:       staffRepo,
		serviceRepo:     serviceRepo,
		timeProvider:    &RealTimeProvider{},
		loc:             loc,
		logger:          logger,
	}
}

// UseCache включает кэширование слотов
func (uc *UseCase) UseCache(cache SlotsCache) {
	uc.cache = cache
}

// UseMetrics включает метрики попаданий в кэш
func (uc *UseCase) UseMetrics(m *metrics.Metrics) {
	uc.metrics = m
}

// Execute выполняет use case получения свободных слотов
// Отсутствие слотов - не ошибка: возвращается пустой список
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, uc.loc)
	now := uc.timeProvider.Now().In(uc.loc)

	uc.logger.Info("GetAvailableSlots: organization=%d, staff=%d, service=%d, date=%s",
		req.OrganizationID, req.StaffID, req.ServiceID, date.Format(domain.DateFormat))

	// 2. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.OrganizationID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found in organization id=%d", req.ServiceID, req.OrganizationID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		return nil, ErrServiceInactive
	}
	if !service.HasValidDuration() {
		uc.logger.Warn("GetAvailableSlots: service id=%d has invalid duration %d", service.ID, service.DurationMinutes)
		return nil, ErrInvalidServiceDuration
	}

	// 3. Получаем мастера
	staff, err := uc.staffRepo.GetByID(ctx, req.OrganizationID, req.StaffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			uc.logger.Warn("GetAvailableSlots: staff id=%d not found in organization id=%d", req.StaffID, req.OrganizationID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if !staff.IsActive {
		return nil, ErrStaffInactive
	}
	if !staff.Performs(service.ID) {
		uc.logger.Warn("GetAvailableSlots: staff id=%d does not perform service id=%d", staff.ID, service.ID)
		return nil, ErrServiceNotPerformed
	}

	response := &Response{
		Date:      date,
		StaffID:   req.StaffID,
		ServiceID: req.ServiceID,
		Slots:     []types.TimeString{},
	}

	// 4. Прошедшая дата - слотов нет
	if date.Before(domain.StartOfDay(now, uc.loc)) {
		return response, nil
	}

	// 5. Смены мастера в этот день недели
	shifts := domain.ShiftsFor(staff.Schedule, date.Weekday())
	if len(shifts) == 0 {
		uc.logger.Info("GetAvailableSlots: staff id=%d is off on %s", staff.ID, date.Format(domain.DateFormat))
		return response, nil
	}

	candidates := scheduling.GenerateDaySlots(shifts, service.DurationMinutes, domain.SlotGranularityMinutes, date)

	// 6. Без кэша: кандидаты минус пересечения с активными записями и прошедшее время
	if uc.cache == nil {
		existing, err := uc.getAppointments(ctx, req.OrganizationID, staff.ID, date)
		if err != nil {
			return nil, err
		}
		response.Slots = scheduling.FilterAvailable(candidates, existing, now, date)
		uc.logFound(response)
		return response, nil
	}

	// 7. Кэш хранит слоты без учета текущего времени
	if free, ok := uc.readCache(ctx, req, date); ok {
		response.Slots = scheduling.RemovePast(free, date, now)
		return response, nil
	}

	// 8. Поколение берется до чтения записей: инвалидация после этой точки отменит запись в кэш
	generation, genErr := uc.cache.Generation(ctx, req.OrganizationID, req.StaffID, date)
	if genErr != nil {
		uc.logger.Warn("GetAvailableSlots: cache generation read failed: %v", genErr)
	}

	existing, err := uc.getAppointments(ctx, req.OrganizationID, staff.ID, date)
	if err != nil {
		return nil, err
	}

	free := scheduling.StartTimes(scheduling.RemoveBooked(candidates, existing))
	if genErr == nil {
		uc.writeCache(ctx, req, date, generation, free)
	}

	// 9. Для сегодняшнего дня убираем уже начавшиеся слоты
	response.Slots = scheduling.RemovePast(free, date, now)
	uc.logFound(response)

	return response, nil
}

func (uc *UseCase) getAppointments(ctx context.Context, organizationID, staffID int64, date time.Time) ([]domain.BookingRecord, error) {
	existing, err := uc.appointmentRepo.GetActiveByStaffAndDate(ctx, organizationID, staffID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}
	return existing, nil
}

func (uc *UseCase) logFound(response *Response) {
	uc.logger.Info("GetAvailableSlots: %d free slots for staff=%d, service=%d, date=%s",
		len(response.Slots), response.StaffID, response.ServiceID, response.Date.Format(domain.DateFormat))
}

func (uc *UseCase) readCache(ctx context.Context, req *Request, date time.Time) ([]types.TimeString, bool) {
	free, hit, err := uc.cache.Get(ctx, req.OrganizationID, req.StaffID, date, req.ServiceID)
	switch {
	case err != nil:
		uc.logger.Warn("GetAvailableSlots: cache read failed: %v", err)
		uc.observeCache("error")
		return nil, false
	case hit:
		uc.observeCache("hit")
		return free, true
	default:
		uc.observeCache("miss")
		return nil, false
	}
}

func (uc *UseCase) writeCache(ctx context.Context, req *Request, date time.Time, generation int64, free []types.TimeString) {
	if err := uc.cache.Set(ctx, req.OrganizationID, req.StaffID, date, req.ServiceID, generation, free); err != nil {
		uc.logger.Warn("GetAvailableSlots: cache write failed: %v", err)
	}
}

func (uc *UseCase) observeCache(result string) {
	if uc.metrics != nil {
		uc.metrics.SlotsCacheRequests.WithLabelValues(result).Inc()
	}
}
