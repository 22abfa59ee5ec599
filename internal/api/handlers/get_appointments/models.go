package get_appointments

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// Поддерживаются: staffId, clientId, startDate, endDate, status, includeInactive
func ToServiceRequest(organizationID int64, query url.Values) (*models.GetOrganizationAppointmentsRequest, error) {
	req := &models.GetOrganizationAppointmentsRequest{
		OrganizationID: organizationID,
	}

	if v := query.Get("staffId"); v != "" {
		staffID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid staffId: %w", err)
		}
		req.StaffID = &staffID
	}

	if v := query.Get("clientId"); v != "" {
		clientID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid clientId: %w", err)
		}
		req.ClientID = &clientID
	}

	if v := query.Get("startDate"); v != "" {
		startDate, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate: %w", err)
		}
		req.StartDate = &startDate
	}

	if v := query.Get("endDate"); v != "" {
		endDate, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate: %w", err)
		}
		req.EndDate = &endDate
	}

	if v := query.Get("status"); v != "" {
		req.Status = &v
	}

	if v := query.Get("includeInactive"); v != "" {
		includeInactive, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
