package update_staff_schedule

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/staff"
	"github.com/m04kA/SMC-SalonService/internal/service/staff/models"
	"github.com/m04kA/SMC-SalonService/pkg/logger"
)

const weekJSON = `{
	"monday":    {"isOff": false, "shifts": [{"start": "09:00", "end": "12:00"}, {"start": "13:00", "end": "18:00"}]},
	"tuesday":   {"isOff": false, "shifts": [{"start": "09:00", "end": "18:00"}]},
	"wednesday": {"isOff": false, "shifts": [{"start": "09:00", "end": "18:00"}]},
	"thursday":  {"isOff": false, "shifts": [{"start": "09:00", "end": "18:00"}]},
	"friday":    {"isOff": false, "shifts": [{"start": "09:00", "end": "18:00"}]},
	"saturday":  {"isOff": true, "shifts": []},
	"sunday":    {"isOff": true, "shifts": []}
}`

type fakeService struct {
	got *domain.WeeklySchedule
	err error
}

func (f *fakeService) UpdateSchedule(_ context.Context, _, staffID int64, schedule domain.WeeklySchedule) (*models.ScheduleResponse, error) {
	f.got = &schedule
	if f.err != nil {
		return nil, f.err
	}
	return &models.ScheduleResponse{StaffID: staffID, Schedule: schedule}, nil
}

func newRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPut, "/api/v1/organizations/1/staff/7/schedule", strings.NewReader(body))
	return mux.SetURLVars(r, map[string]string{"organizationId": "1", "staffId": "7"})
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.Nop())
	w := httptest.NewRecorder()

	h.Handle(w, newRequest(weekJSON))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.got)
	require.Len(t, svc.got.Monday.Shifts, 2)
	assert.Equal(t, "13:00", svc.got.Monday.Shifts[1].Start.String())
	assert.True(t, svc.got.Sunday.IsOff)

	var body models.ScheduleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.StaffID)
}

func TestHandle_MissingDay(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.Nop())
	w := httptest.NewRecorder()

	h.Handle(w, newRequest(`{"monday":{"isOff":true,"shifts":[]}}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.got)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid shifts", staff.ErrInvalidSchedule, http.StatusBadRequest},
		{"not found", staff.ErrStaffNotFound, http.StatusNotFound},
		{"internal", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.err}, logger.Nop())
			w := httptest.NewRecorder()

			h.Handle(w, newRequest(weekJSON))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
