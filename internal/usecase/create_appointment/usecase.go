package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/catalog"
	clientRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/client"
	staffRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SalonService/internal/scheduling"
	"github.com/m04kA/SMC-SalonService/pkg/metrics"
)

const (
	pathStaff        = "staff"
	pathOrganization = "organization"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	staffRepo       StaffRepository
	serviceRepo     ServiceRepository
	clientRepo      ClientRepository
	txManager       TransactionManager
	cache           SlotsCache
	notifier        Notifier
	metrics         *metrics.Metrics
	timeProvider    TimeProvider
	loc             *time.Location
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	staffRepo StaffRepository,
	serviceRepo ServiceRepository,
	clientRepo ClientRepository,
	txManager TransactionManager,
	notifier Notifier,
	loc *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		staffRepo:       staffRepo,
		serviceRepo:     serviceRepo,
		clientRepo:      clientRepo,
		txManager:       txManager,
		notifier:        notifier,
		timeProvider:    &RealTimeProvider{},
		loc:             loc,
		logger:          logger,
	}
}

// UseCache включает сброс кэша слотов после записи
func (uc *UseCase) UseCache(cache SlotsCache) {
	uc.cache = cache
}

// UseMetrics включает доменные метрики
func (uc *UseCase) UseMetrics(m *metrics.Metrics) {
	uc.metrics = m
}

// Execute выполняет use case создания записи
// Проверка доступности и вставка выполняются в одной сериализуемой транзакции.
// Автоматических повторов нет: при конфликте клиент заново запрашивает слоты.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных (до любых обращений к БД)
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, uc.loc)
	now := uc.timeProvider.Now().In(uc.loc)

	path := pathOrganization
	if req.StaffID != nil {
		path = pathStaff
	}

	uc.logger.Info("CreateAppointment: organization=%d, path=%s, service=%d, client=%d, date=%s, time=%s",
		req.OrganizationID, path, req.ServiceID, req.ClientID, date.Format(domain.DateFormat), req.StartTime)

	start := req.StartTime.OnDate(date)
	if scheduling.IsPast(domain.TimeInterval{Start: start}, now) {
		uc.logger.Warn("CreateAppointment: requested time %s %s is in the past", date.Format(domain.DateFormat), req.StartTime)
		return nil, ErrTimeInPast
	}

	// 2. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.OrganizationID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found in organization id=%d", req.ServiceID, req.OrganizationID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		return nil, ErrServiceInactive
	}
	if !service.HasValidDuration() {
		uc.logger.Warn("CreateAppointment: service id=%d has invalid duration %d", service.ID, service.DurationMinutes)
		return nil, ErrInvalidServiceDuration
	}

	// 3. Проверяем клиента
	if _, err := uc.clientRepo.GetByID(ctx, req.OrganizationID, req.ClientID); err != nil {
		if errors.Is(err, clientRepo.ErrClientNotFound) {
			uc.logger.Warn("CreateAppointment: client id=%d not found in organization id=%d", req.ClientID, req.OrganizationID)
			return nil, ErrClientNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get client id=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
	}

	// 4. Интервал визита не может переходить через полночь
	endTime, err := req.StartTime.AddMinutes(service.DurationMinutes)
	if err != nil {
		return nil, ErrInvalidTimeSlot
	}
	requested, err := domain.NewTimeInterval(start, service.DurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appt := &domain.Appointment{
		OrganizationID:  req.OrganizationID,
		StaffID:         req.StaffID,
		ServiceID:       service.ID,
		ClientID:        req.ClientID,
		Date:            date,
		StartTime:       req.StartTime,
		StartAt:         requested.Start,
		EndAt:           requested.End,
		DurationMinutes: service.DurationMinutes,
		Status:          domain.StatusPending,
		ServiceName:     service.Name,
		ServicePrice:    service.Price,
		Notes:           req.Notes,
	}

	// 5. Проверка и вставка в одной сериализуемой транзакции
	var created *domain.Appointment
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		if req.StaffID != nil {
			err = uc.checkStaffAvailability(txCtx, req, date, requested)
		} else {
			err = uc.checkOrganizationTime(txCtx, req, date)
		}
		if err != nil {
			return err
		}

		created, err = uc.appointmentRepo.Create(txCtx, appt)
		return err
	})

	if err != nil {
		return nil, uc.translateTxError(err, req)
	}

	uc.logger.Info("CreateAppointment: created appointment id=%d, staff=%v, %s %s-%s",
		created.ID, formatStaff(created.StaffID), date.Format(domain.DateFormat), created.StartTime, endTime)

	uc.afterCreate(ctx, created, path)

	return &Response{
		ID:              created.ID,
		OrganizationID:  created.OrganizationID,
		StaffID:         created.StaffID,
		ServiceID:       created.ServiceID,
		ClientID:        created.ClientID,
		Date:            created.Date,
		StartTime:       created.StartTime,
		EndTime:         endTime,
		DurationMinutes: created.DurationMinutes,
		Status:          string(created.Status),
		ServiceName:     created.ServiceName,
		ServicePrice:    created.ServicePrice,
		Notes:           created.Notes,
		CreatedAt:       created.CreatedAt,
	}, nil
}

// checkStaffAvailability повторно проверяет мастера и его занятость внутри транзакции.
// Строка мастера и его записи на день блокируются до конца транзакции.
// Force здесь не действует.
func (uc *UseCase) checkStaffAvailability(ctx context.Context, req *Request, date time.Time, requested domain.TimeInterval) error {
	staff, err := uc.staffRepo.GetByID(ctx, req.OrganizationID, *req.StaffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			uc.logger.Warn("CreateAppointment: staff id=%d not found in organization id=%d", *req.StaffID, req.OrganizationID)
			return ErrStaffNotFound
		}
		if appointmentRepo.IsSlotConflict(err) {
			return err
		}
		uc.logger.Error("CreateAppointment: failed to get staff id=%d: %v", *req.StaffID, err)
		return fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	if !staff.IsActive {
		return ErrStaffInactive
	}
	if !staff.Performs(req.ServiceID) {
		uc.logger.Warn("CreateAppointment: staff id=%d does not perform service id=%d", staff.ID, req.ServiceID)
		return ErrServiceNotPerformed
	}

	if err := validateWorkingHours(domain.ShiftsFor(staff.Schedule, date.Weekday()), date, requested); err != nil {
		uc.logger.Warn("CreateAppointment: %s-%s is outside working hours of staff id=%d",
			requested.Start.Format(domain.TimeFormat), requested.End.Format(domain.TimeFormat), staff.ID)
		return err
	}

	existing, err := uc.appointmentRepo.GetActiveByStaffAndDate(ctx, req.OrganizationID, staff.ID, date)
	if err != nil {
		if appointmentRepo.IsSlotConflict(err) {
			return err
		}
		uc.logger.Error("CreateAppointment: failed to get appointments of staff id=%d: %v", staff.ID, err)
		return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	if scheduling.IsBooked(requested, existing) {
		uc.logger.Warn("CreateAppointment: staff id=%d is busy at %s", staff.ID, requested.Start.Format(time.RFC3339))
		uc.observeConflict("precheck")
		return ErrSlotUnavailable
	}

	return nil
}

// checkOrganizationTime мягкая проверка для записи без мастера:
// любая активная запись организации на ту же дату и время блокирует создание, если не указан Force
func (uc *UseCase) checkOrganizationTime(ctx context.Context, req *Request, date time.Time) error {
	count, err := uc.appointmentRepo.CountActiveAtTime(ctx, req.OrganizationID, date, req.StartTime)
	if err != nil {
		if appointmentRepo.IsSlotConflict(err) {
			return err
		}
		uc.logger.Error("CreateAppointment: failed to count appointments at %s: %v", req.StartTime, err)
		return fmt.Errorf("%w: failed to count appointments: %v", ErrInternal, err)
	}

	if count == 0 {
		return nil
	}
	if req.Force {
		uc.logger.Warn("CreateAppointment: forcing appointment at %s %s, %d already booked",
			date.Format(domain.DateFormat), req.StartTime, count)
		return nil
	}

	uc.observeConflict("organization")
	return ErrOrganizationSlotTaken
}

// translateTxError приводит ошибку транзакции к ошибке use case.
// Нарушение ограничений БД и конфликт сериализации (при чтении или commit) означают, что время занял конкурентный запрос.
// Для записи без мастера это время организации, а не мастера.
func (uc *UseCase) translateTxError(err error, req *Request) error {
	if appointmentRepo.IsSlotConflict(err) {
		uc.logger.Warn("CreateAppointment: slot taken concurrently: %v", err)
		uc.observeConflict("storage")
		if req.StaffID == nil {
			return ErrOrganizationSlotTaken
		}
		return ErrSlotUnavailable
	}

	if errors.Is(err, ErrInternal) || domain.KindOf(err) != domain.KindInternal {
		return err
	}

	uc.logger.Error("CreateAppointment: transaction failed: %v", err)
	return fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
}

func (uc *UseCase) afterCreate(ctx context.Context, appt *domain.Appointment, path string) {
	if uc.metrics != nil {
		uc.metrics.AppointmentsCreated.WithLabelValues(path).Inc()
	}

	if uc.cache != nil && appt.StaffID != nil {
		if err := uc.cache.InvalidateDay(ctx, appt.OrganizationID, *appt.StaffID, appt.Date); err != nil {
			uc.logger.Warn("CreateAppointment: failed to invalidate slots cache: %v", err)
		}
	}

	if uc.notifier != nil {
		uc.notifier.Notify(domain.EventAppointmentCreated, *appt)
	}
}

func (uc *UseCase) observeConflict(stage string) {
	if uc.metrics != nil {
		uc.metrics.BookingConflicts.WithLabelValues(stage).Inc()
	}
}

func formatStaff(staffID *int64) string {
	if staffID == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *staffID)
}
