package client_cancel_appointment

import "github.com/m04kA/SMC-SalonService/internal/service/appointments/models"

// ClientCancelRequest HTTP request model
type ClientCancelRequest struct {
	ClientID int64   `json:"clientId"`
	Reason   *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *ClientCancelRequest) ToServiceRequest() *models.ClientCancelRequest {
	return &models.ClientCancelRequest{
		ClientID: r.ClientID,
		Reason:   r.Reason,
	}
}
