package get_staff_schedule

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

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/staff"
	"github.com/m04kA/SMC-SalonService/internal/service/staff/models"
	"github.com/m04kA/SMC-SalonService/pkg/logger"
)

type fakeService struct {
	err error
}

func (f *fakeService) GetSchedule(_ context.Context, _, staffID int64) (*models.ScheduleResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ScheduleResponse{StaffID: staffID, Schedule: domain.DefaultWeeklySchedule()}, nil
}

func newRequest(staffID string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/organizations/1/staff/"+staffID+"/schedule", nil)
	return mux.SetURLVars(r, map[string]string{"organizationId": "1", "staffId": staffID})
}

func TestHandle(t *testing.T) {
	h := NewHandler(&fakeService{}, logger.Nop())
	w := httptest.NewRecorder()

	h.Handle(w, newRequest("7"))

	require.Equal(t, http.StatusOK, w.Code)
	var body models.ScheduleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.StaffID)
	require.Len(t, body.Schedule.Saturday.Shifts, 1)
	assert.Equal(t, "14:00", body.Schedule.Saturday.Shifts[0].End.String())
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		staffID    string
		err        error
		wantStatus int
	}{
		{"bad staff id", "x", nil, http.StatusBadRequest},
		{"not found", "7", staff.ErrStaffNotFound, http.StatusNotFound},
		{"internal", "7", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.err}, logger.Nop())
			w := httptest.NewRecorder()

			h.Handle(w, newRequest(tt.staffID))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
