package cancel_appointment

import "github.com/m04kA/SMC-SalonService/internal/service/appointments/models"

// CancelAppointmentRequest HTTP request model
type CancelAppointmentRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelAppointmentRequest) ToServiceRequest() *models.CancelRequest {
	return &models.CancelRequest{Reason: r.Reason}
}
