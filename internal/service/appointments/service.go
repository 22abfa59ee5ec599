package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonService/pkg/metrics"
)

// Service сервис для работы с записями: просмотр и смена статусов
type Service struct {
	appointmentRepo AppointmentRepository
	cache           SlotsCache
	notifier        Notifier
	metrics         *metrics.Metrics
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	notifier Notifier,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
		logger:          logger,
	}
}

// UseCache включает сброс кэша слотов при смене статуса
func (s *Service) UseCache(cache SlotsCache) {
	s.cache = cache
}

// UseMetrics включает метрики переходов статусов
func (s *Service) UseMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// GetByID получает запись организации по ID
// Запись другой организации возвращается как отсутствующая
func (s *Service) GetByID(ctx context.Context, organizationID, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for organization=%d", id, organizationID)

	appt, err := s.appointmentRepo.GetByID(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found in organization=%d", id, organizationID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt), nil
}

// GetOrganizationAppointments получает записи организации с фильтрацией
// по мастеру, клиенту, периоду, статусу и включению неактивных записей
func (s *Service) GetOrganizationAppointments(ctx context.Context, req *models.GetOrganizationAppointmentsRequest) (*models.AppointmentListResponse, error) {
	logMsg := fmt.Sprintf("GetOrganizationAppointments: organization=%d", req.OrganizationID)
	if req.StaffID != nil {
		logMsg += fmt.Sprintf(", staff=%d", *req.StaffID)
	}
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetOrganizationAppointments: invalid filter for organization=%d: %v", req.OrganizationID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appointments, err := s.appointmentRepo.GetByOrganizationWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetOrganizationAppointments: repository error for organization=%d: %v", req.OrganizationID, err)
		return nil, fmt.Errorf("%w: GetOrganizationAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetOrganizationAppointments: fetched %d appointments for organization=%d", len(appointments), req.OrganizationID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Confirm подтверждает запись: pending -> confirmed
func (s *Service) Confirm(ctx context.Context, organizationID, id int64) (*models.AppointmentResponse, error) {
	return s.transition(ctx, "Confirm", domain.StatusTransition{
		OrganizationID: organizationID,
		AppointmentID:  id,
		From:           []domain.AppointmentStatus{domain.StatusPending},
		To:             domain.StatusConfirmed,
	}, domain.EventAppointmentConfirmed)
}

// CancelBySalon отменяет запись со стороны салона: pending -> cancelled_by_salon
func (s *Service) CancelBySalon(ctx context.Context, organizationID, id int64, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	if err := models.ValidateReason(req.Reason); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return s.transition(ctx, "CancelBySalon", domain.StatusTransition{
		OrganizationID: organizationID,
		AppointmentID:  id,
		From:           []domain.AppointmentStatus{domain.StatusPending},
		To:             domain.StatusCancelledBySalon,
		Reason:         req.Reason,
	}, domain.EventAppointmentCancelled)
}

// CancelByClient отменяет запись клиентом: pending|confirmed -> cancelled_by_client
// Клиент может отменить только свою запись
func (s *Service) CancelByClient(ctx context.Context, organizationID, id int64, req *models.ClientCancelRequest) (*models.AppointmentResponse, error) {
	if req.ClientID <= 0 {
		return nil, fmt.Errorf("%w: clientId must be positive", ErrInvalidInput)
	}
	if err := models.ValidateReason(req.Reason); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return s.transition(ctx, "CancelByClient", domain.StatusTransition{
		OrganizationID: organizationID,
		AppointmentID:  id,
		ClientID:       &req.ClientID,
		From:           domain.ActiveStatuses,
		To:             domain.StatusCancelledByClient,
		Reason:         req.Reason,
	}, domain.EventAppointmentCancelled)
}

// transition выполняет условное обновление статуса.
// Если запись не найдена или её статус уже другой, ничего не меняется.
func (s *Service) transition(ctx context.Context, op string, t domain.StatusTransition, event domain.EventType) (*models.AppointmentResponse, error) {
	s.logger.Info("%s: appointment id=%d organization=%d -> %s", op, t.AppointmentID, t.OrganizationID, t.To)

	appt, err := s.appointmentRepo.UpdateStatusIfCurrent(ctx, t)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found or already processed", op, t.AppointmentID)
			s.observeTransition(t.To, "not_found_or_processed")
			return nil, ErrNotFoundOrAlreadyProcessed
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, t.AppointmentID, err)
		s.observeTransition(t.To, "error")
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.observeTransition(t.To, "ok")
	s.logger.Info("%s: appointment id=%d is now %s", op, appt.ID, appt.Status)

	// подтверждение не освобождает время, отмена освобождает
	if s.cache != nil && appt.StaffID != nil && t.IsCancellation() {
		if err := s.cache.InvalidateDay(ctx, appt.OrganizationID, *appt.StaffID, appt.Date); err != nil {
			s.logger.Warn("%s: failed to invalidate slots cache: %v", op, err)
		}
	}

	if s.notifier != nil {
		s.notifier.Notify(event, *appt)
	}

	return models.FromDomainAppointment(appt), nil
}

func (s *Service) observeTransition(to domain.AppointmentStatus, result string) {
	if s.metrics != nil {
		s.metrics.StatusTransitions.WithLabelValues(string(to), result).Inc()
	}
}
