package create_appointment

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	createAppointment "github.com/m04kA/SMC-SalonService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid start time")
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	StaffID   *int64  `json:"staffId,omitempty"` // без мастера запись попадает в общий список салона
	ServiceID int64   `json:"serviceId"`
	ClientID  int64   `json:"clientId"`
	Date      string  `json:"date"`      // "2025-03-12"
	StartTime string  `json:"startTime"` // "14:00"
	Notes     *string `json:"notes,omitempty"`
	Force     bool    `json:"force,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	OrganizationID  int64   `json:"organizationId"`
	StaffID         *int64  `json:"staffId"`
	ServiceID       int64   `json:"serviceId"`
	ClientID        int64   `json:"clientId"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(organizationID int64) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, errInvalidDate
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, errInvalidTime
	}

	return &createAppointment.Request{
		OrganizationID: organizationID,
		StaffID:        r.StaffID,
		ServiceID:      r.ServiceID,
		ClientID:       r.ClientID,
		Date:           date,
		StartTime:      startTime,
		Notes:          r.Notes,
		Force:          r.Force,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		OrganizationID:  resp.OrganizationID,
		StaffID:         resp.StaffID,
		ServiceID:       resp.ServiceID,
		ClientID:        resp.ClientID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		ServiceName:     resp.ServiceName,
		ServicePrice:    resp.ServicePrice,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
