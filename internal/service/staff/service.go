package staff

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/catalog"
	staffRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SalonService/internal/service/staff/models"
)

// Service сервис для работы с мастерами и их расписанием
type Service struct {
	staffRepo   StaffRepository
	serviceRepo ServiceRepository
	txManager   TransactionManager
	cache       SlotsCache
	logger      Logger
}

// NewService создает новый экземпляр сервиса мастеров
func NewService(
	staffRepo StaffRepository,
	serviceRepo ServiceRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		staffRepo:   staffRepo,
		serviceRepo: serviceRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// UseCache включает сброс кэша слотов при смене расписания
func (s *Service) UseCache(cache SlotsCache) {
	s.cache = cache
}

// Create создает мастера
// Если расписание не передано, назначается расписание по умолчанию
// Все услуги должны принадлежать организации
func (s *Service) Create(ctx context.Context, organizationID int64, req *models.CreateStaffRequest) (*models.StaffResponse, error) {
	s.logger.Info("Create: creating staff for organization=%d, services=%v", organizationID, req.ServiceIDs)

	// 1. Валидируем входные данные
	if err := req.Validate(); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	schedule := domain.DefaultWeeklySchedule()
	if req.Schedule != nil {
		schedule = *req.Schedule
	}
	if err := schedule.Validate(); err != nil {
		s.logger.Warn("Create: invalid schedule: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	staff := req.ToDomainStaff(organizationID, schedule)

	// 2. Проверка услуг и вставка в одной транзакции
	var created *domain.Staff
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, serviceID := range staff.ServiceIDs {
			if _, err := s.serviceRepo.GetByID(txCtx, organizationID, serviceID); err != nil {
				if errors.Is(err, catalogRepo.ErrServiceNotFound) {
					s.logger.Warn("Create: service id=%d not found in organization=%d", serviceID, organizationID)
					return ErrServiceNotFound
				}
				s.logger.Error("Create: failed to get service id=%d: %v", serviceID, err)
				return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
			}
		}

		var err error
		created, err = s.staffRepo.Create(txCtx, staff)
		if err != nil {
			s.logger.Error("Create: repository error: %v", err)
			return fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) || domain.KindOf(err) != domain.KindInternal {
			return nil, err
		}
		s.logger.Error("Create: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: Create - transaction failed: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created staff id=%d in organization=%d", created.ID, organizationID)
	return models.FromDomainStaff(created), nil
}

// GetSchedule получает недельное расписание мастера
func (s *Service) GetSchedule(ctx context.Context, organizationID, staffID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule of staff id=%d in organization=%d", staffID, organizationID)

	staff, err := s.staffRepo.GetByID(ctx, organizationID, staffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			s.logger.Warn("GetSchedule: staff id=%d not found in organization=%d", staffID, organizationID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("GetSchedule: repository error for staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	return &models.ScheduleResponse{StaffID: staff.ID, Schedule: staff.Schedule}, nil
}

// UpdateSchedule полностью заменяет недельное расписание мастера
// Уже созданные записи не пересматриваются
func (s *Service) UpdateSchedule(ctx context.Context, organizationID, staffID int64, schedule domain.WeeklySchedule) (*models.ScheduleResponse, error) {
	s.logger.Info("UpdateSchedule: updating schedule of staff id=%d in organization=%d", staffID, organizationID)

	if err := schedule.Validate(); err != nil {
		s.logger.Warn("UpdateSchedule: invalid schedule for staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	if err := s.staffRepo.UpdateSchedule(ctx, organizationID, staffID, schedule); err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			s.logger.Warn("UpdateSchedule: staff id=%d not found in organization=%d", staffID, organizationID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("UpdateSchedule: repository error for staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: UpdateSchedule - repository error: %v", ErrInternal, err)
	}

	// свободные слоты мастера на все дни посчитаны по старому расписанию
	if s.cache != nil {
		if err := s.cache.InvalidateStaff(ctx, organizationID, staffID); err != nil {
			s.logger.Warn("UpdateSchedule: failed to invalidate slots cache of staff id=%d: %v", staffID, err)
		}
	}

	s.logger.Info("UpdateSchedule: successfully updated schedule of staff id=%d", staffID)
	return &models.ScheduleResponse{StaffID: staffID, Schedule: schedule}, nil
}
