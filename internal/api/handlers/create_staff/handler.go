package create_staff

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/service/staff"
	"github.com/m04kA/SMC-SalonService/internal/service/staff/models"
)

const (
	msgInvalidOrganizationID = "некорректный ID организации"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidInput          = "некорректные данные мастера"
	msgInvalidSchedule       = "некорректное расписание мастера"
	msgServiceNotFound       = "услуга не найдена"
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

// Handle POST /api/v1/organizations/{organizationId}/staff
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	organizationID, err := handlers.PathID(r, "organizationId")
	if err != nil {
		h.logger.Warn("POST /staff - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	var req models.CreateStaffRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /staff - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), organizationID, &req)
	if err != nil {
		switch {
		case errors.Is(err, staff.ErrInvalidInput):
			h.logger.Warn("POST /staff - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, staff.ErrInvalidSchedule):
			h.logger.Warn("POST /staff - Invalid schedule: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSchedule)

		case errors.Is(err, staff.ErrServiceNotFound):
			h.logger.Warn("POST /staff - Service not found: organization_id=%d", organizationID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		default:
			h.logger.Error("POST /staff - Failed to create staff: organization_id=%d, error=%v", organizationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /staff - Staff created successfully: staff_id=%d, organization_id=%d", result.ID, organizationID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
