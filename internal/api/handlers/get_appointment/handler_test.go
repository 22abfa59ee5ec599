package get_appointment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/service/appointments"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonService/pkg/logger"
)

type fakeService struct {
	err error
}

func (f *fakeService) GetByID(_ context.Context, organizationID, id int64) (*models.AppointmentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{ID: id, OrganizationID: organizationID, Status: "pending"}, nil
}

func newRequest(orgID, appointmentID string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/organizations/"+orgID+"/appointments/"+appointmentID, nil)
	return mux.SetURLVars(r, map[string]string{"organizationId": orgID, "appointmentId": appointmentID})
}

func TestHandle(t *testing.T) {
	h := NewHandler(&fakeService{}, logger.Nop())
	w := httptest.NewRecorder()

	h.Handle(w, newRequest("1", "15"))

	require.Equal(t, http.StatusOK, w.Code)
	var body models.AppointmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(15), body.ID)
	assert.Equal(t, int64(1), body.OrganizationID)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		orgID      string
		apptID     string
		err        error
		wantStatus int
	}{
		{"bad organization id", "-1", "15", nil, http.StatusBadRequest},
		{"bad appointment id", "1", "abc", nil, http.StatusBadRequest},
		{"not found", "1", "15", appointments.ErrAppointmentNotFound, http.StatusNotFound},
		{"internal", "1", "15", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.err}, logger.Nop())
			w := httptest.NewRecorder()

			h.Handle(w, newRequest(tt.orgID, tt.apptID))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
