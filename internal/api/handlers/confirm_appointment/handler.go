package confirm_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments"
)

const (
	msgInvalidOrganizationID = "некорректный ID организации"
	msgInvalidAppointmentID  = "некорректный ID записи"
	msgAlreadyProcessed      = "запись не найдена или уже не ожидает подтверждения"
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

// Handle PATCH /api/v1/organizations/{organizationId}/appointments/{appointmentId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	organizationID, err := handlers.PathID(r, "organizationId")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/confirm - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	appointmentID, err := handlers.PathID(r, "appointmentId")
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/confirm - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	result, err := h.service.Confirm(r.Context(), organizationID, appointmentID)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrNotFoundOrAlreadyProcessed):
			h.logger.Warn("PATCH /appointments/{id}/confirm - Not found or already processed: appointment_id=%d", appointmentID)
			handlers.RespondAlreadyProcessed(w, msgAlreadyProcessed)

		default:
			h.logger.Error("PATCH /appointments/{id}/confirm - Failed to confirm appointment: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/confirm - Appointment confirmed: appointment_id=%d, organization_id=%d",
		appointmentID, organizationID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
