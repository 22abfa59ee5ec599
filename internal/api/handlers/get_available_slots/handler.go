package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-SalonService/internal/usecase/get_available_slots"
)

const (
	msgInvalidOrganizationID = "некорректный ID организации"
	msgInvalidStaffID        = "некорректный ID мастера"
	msgInvalidServiceID      = "некорректный ID услуги"
	msgMissingServiceID      = "ID услуги обязателен"
	msgMissingDate           = "дата обязательна"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgStaffNotFound         = "мастер не найден"
	msgServiceNotFound       = "услуга не найдена"
	msgStaffInactive         = "мастер не принимает записи"
	msgServiceInactive       = "услуга недоступна"
	msgServiceNotPerformed   = "мастер не оказывает эту услугу"
	msgInvalidRequest        = "некорректный запрос"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/organizations/{organizationId}/staff/{staffId}/available-slots
// Query params: serviceId (required), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	organizationID, err := handlers.PathID(r, "organizationId")
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/staff/{id}/available-slots - Invalid organization ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOrganizationID)
		return
	}

	staffID, err := handlers.PathID(r, "staffId")
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/staff/{id}/available-slots - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	serviceIDStr := r.URL.Query().Get("serviceId")
	if serviceIDStr == "" {
		h.logger.Warn("GET /organizations/{id}/staff/{id}/available-slots - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/staff/{id}/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /organizations/{id}/staff/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(organizationID, staffID, serviceID, dateStr)
	if err != nil {
		h.logger.Warn("GET /organizations/{id}/staff/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrStaffNotFound):
			h.logger.Warn("GET /organizations/{id}/staff/{id}/available-slots - Staff not found: organization_id=%d, staff_id=%d",
				organizationID, staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /organizations/{id}/staff/{id}/available-slots - Service not found: organization_id=%d, service_id=%d",
				organizationID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrStaffInactive):
			handlers.RespondBadRequest(w, msgStaffInactive)

		case errors.Is(err, getAvailableSlots.ErrServiceInactive):
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, getAvailableSlots.ErrServiceNotPerformed):
			handlers.RespondBadRequest(w, msgServiceNotPerformed)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /organizations/{id}/staff/{id}/available-slots - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /organizations/{id}/staff/{id}/available-slots - Failed to get slots: organization_id=%d, staff_id=%d, service_id=%d, error=%v",
				organizationID, staffID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /organizations/{id}/staff/{id}/available-slots - Slots retrieved successfully: organization_id=%d, staff_id=%d, service_id=%d, slots_count=%d",
		organizationID, staffID, serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
