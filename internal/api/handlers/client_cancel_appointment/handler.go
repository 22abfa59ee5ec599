package client_cancel_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments"
)

const (
	msgInvalidOrganizationID = "некорректный ID организации"
	msgInvalidAppointmentID  = "некорректный ID записи"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidRequest        = "некорректный ID клиента или причина отмены"
	msgAlreadyProcessed      = "запись не найдена или уже отменена"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/organizations/{organizationId}/appointments/{appointmentId}/client-cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	organizationID, err := handlers.PathID(r, "organizationId")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/client-cancel - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	appointmentID, err := handlers.PathID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/client-cancel - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req ClientCancelRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/client-cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CancelByClient(r.Context(), organizationID, appointmentID, req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrNotFoundOrAlreadyProcessed):
			h.logger.Warn("PATCH /appointments/{id}/client-cancel - Not found or already processed: appointment_id=%d, client_id=%d",
				appointmentID, req.ClientID)
			handlers.RespondAlreadyProcessed(w, msgAlreadyProcessed)

		case errors.Is(err, appointments.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("PATCH /appointments/{id}/client-cancel - Failed to cancel appointment: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/client-cancel - Appointment cancelled by client: appointment_id=%d, client_id=%d",
		appointmentID, req.ClientID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
