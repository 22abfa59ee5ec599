package update_staff_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/staff"
)

const (
	msgInvalidOrganizationID = "некорректный ID организации"
	msgInvalidStaffID        = "некорректный ID мастера"
	msgInvalidSchedule       = "некорректное расписание: должны быть указаны все 7 дней недели"
	msgInvalidShifts         = "некорректное расписание мастера"
	msgStaffNotFound         = "мастер не найден"
)

type Handler struct {
	service StaffService
	logger  Logger
}

func NewHandler(service StaffService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/organizations/{organizationId}/staff/{staffId}/schedule
// Тело запроса: полное недельное расписание
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	organizationID, err := handlers.PathID(r, "organizationId")
	if err != nil {
		h.logger.Warn("PUT /staff/{id}/schedule - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	staffID, err := handlers.PathID(r, "staffId")
	if err != nil {
		h.logger.Warn("PUT /staff/{id}/schedule - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	var schedule domain.WeeklySchedule
	if err := handlers.DecodeJSON(r, &schedule); err != nil {
		h.logger.Warn("PUT /staff/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSchedule)
		return
	}

	result, err := h.service.UpdateSchedule(r.Context(), organizationID, staffID, schedule)
	if err != nil {
		switch {
		case errors.Is(err, staff.ErrInvalidSchedule):
			h.logger.Warn("PUT /staff/{id}/schedule - Invalid schedule: %v", err)
			handlers.RespondBadRequest(w, msgInvalidShifts)

		case errors.Is(err, staff.ErrStaffNotFound):
			handlers.RespondNotFound(w, msgStaffNotFound)

		default:
			h.logger.Error("PUT /staff/{id}/schedule - Failed to update schedule: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /staff/{id}/schedule - Schedule updated: staff_id=%d, organization_id=%d", staffID, organizationID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
