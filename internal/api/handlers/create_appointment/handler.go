package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	createAppointment "github.com/m04kA/SMC-SalonService/internal/usecase/create_appointment"
)

const (
	msgInvalidOrganizationID = "некорректный ID организации"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime           = "некорректный формат времени начала, ожидается HH:MM"
	msgSlotUnavailable       = "выбранное время мастера уже занято"
	msgOrganizationSlotTaken = "на это время в салоне уже есть запись, для подтверждения передайте force=true"
	msgStaffNotFound         = "мастер не найден"
	msgServiceNotFound       = "услуга не найдена"
	msgClientNotFound        = "клиент не найден"
	msgStaffInactive         = "мастер не принимает записи"
	msgServiceInactive       = "услуга недоступна"
	msgServiceNotPerformed   = "мастер не оказывает эту услугу"
	msgOutsideWorkingHours   = "время вне рабочего графика мастера"
	msgInvalidTimeSlot       = "визит должен закончиться до полуночи"
	msgTimeInPast            = "выбранное время уже прошло"
	msgInvalidRequest        = "некорректные данные записи"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/organizations/{organizationId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	organizationID, err := handlers.PathID(r, "organizationId")
	if err != nil {
		h.logger.Warn("POST /organizations/{id}/appointments - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /organizations/{id}/appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(organizationID)
	if err != nil {
		h.logger.Warn("POST /organizations/{id}/appointments - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotUnavailable):
			h.logger.Warn("POST /organizations/{id}/appointments - Slot unavailable: organization_id=%d, staff_id=%v, date=%s, time=%s",
				organizationID, formatStaff(req.StaffID), req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, createAppointment.ErrOrganizationSlotTaken):
			h.logger.Warn("POST /organizations/{id}/appointments - Organization time taken: organization_id=%d, date=%s, time=%s",
				organizationID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgOrganizationSlotTaken)

		case errors.Is(err, createAppointment.ErrStaffNotFound):
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrClientNotFound):
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, createAppointment.ErrStaffInactive):
			handlers.RespondBadRequest(w, msgStaffInactive)

		case errors.Is(err, createAppointment.ErrServiceInactive):
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, createAppointment.ErrServiceNotPerformed):
			handlers.RespondBadRequest(w, msgServiceNotPerformed)

		case errors.Is(err, createAppointment.ErrOutsideWorkingHours):
			handlers.RespondBadRequest(w, msgOutsideWorkingHours)

		case errors.Is(err, createAppointment.ErrInvalidTimeSlot):
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createAppointment.ErrTimeInPast):
			handlers.RespondBadRequest(w, msgTimeInPast)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /organizations/{id}/appointments - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("POST /organizations/{id}/appointments - Failed to create appointment: organization_id=%d, client_id=%d, error=%v",
				organizationID, req.ClientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /organizations/{id}/appointments - Appointment created successfully: appointment_id=%d, organization_id=%d, client_id=%d",
		result.ID, organizationID, result.ClientID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

func formatStaff(staffID *int64) interface{} {
	if staffID == nil {
		return "none"
	}
	return *staffID
}
