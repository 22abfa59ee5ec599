package create_staff

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

type fakeService struct {
	got *models.CreateStaffRequest
	err error
}

func (f *fakeService) Create(_ context.Context, organizationID int64, req *models.CreateStaffRequest) (*models.StaffResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.StaffResponse{
		ID:             7,
		OrganizationID: organizationID,
		Name:           req.Name,
		IsActive:       true,
		ServiceIDs:     req.ServiceIDs,
		Schedule:       domain.DefaultWeeklySchedule(),
	}, nil
}

func newRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/organizations/1/staff", strings.NewReader(body))
	return mux.SetURLVars(r, map[string]string{"organizationId": "1"})
}

func TestHandle_Created(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, logger.Nop())
	w := httptest.NewRecorder()

	h.Handle(w, newRequest(`{"name":"Ana","phone":"+5511988887777","serviceIds":[3,4]}`))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Ana", svc.got.Name)
	assert.Nil(t, svc.got.Schedule)

	var body models.StaffResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.ID)
	assert.Equal(t, []int64{3, 4}, body.ServiceIDs)
	assert.True(t, body.Schedule.Sunday.IsOff)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"empty body", "", nil, http.StatusBadRequest},
		{"unknown field", `{"nome":"Ana"}`, nil, http.StatusBadRequest},
		{"schedule missing day", `{"name":"Ana","schedule":{"monday":{"isOff":true,"shifts":[]}}}`, nil, http.StatusBadRequest},
		{"invalid input", `{"name":""}`, staff.ErrInvalidInput, http.StatusBadRequest},
		{"invalid schedule", `{"name":"Ana"}`, staff.ErrInvalidSchedule, http.StatusBadRequest},
		{"service not found", `{"name":"Ana","serviceIds":[99]}`, staff.ErrServiceNotFound, http.StatusNotFound},
		{"internal", `{"name":"Ana"}`, errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.err}, logger.Nop())
			w := httptest.NewRecorder()

			h.Handle(w, newRequest(tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
