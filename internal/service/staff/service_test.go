package staff

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/catalog"
	staffRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SalonService/internal/service/staff/models"
	"github.com/m04kA/SMC-SalonService/pkg/logger"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

type fakeStaffRepo struct {
	staff     map[int64]*domain.Staff
	nextID    int64
	createErr error
}

func (f *fakeStaffRepo) Create(_ context.Context, s *domain.Staff) (*domain.Staff, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	s.ID = f.nextID
	f.staff[s.ID] = s
	return s, nil
}

func (f *fakeStaffRepo) GetByID(_ context.Context, organizationID, id int64) (*domain.Staff, error) {
	s, ok := f.staff[id]
	if !ok || s.OrganizationID != organizationID {
		return nil, staffRepo.ErrStaffNotFound
	}
	return s, nil
}

func (f *fakeStaffRepo) UpdateSchedule(_ context.Context, organizationID, id int64, schedule domain.WeeklySchedule) error {
	s, ok := f.staff[id]
	if !ok || s.OrganizationID != organizationID {
		return staffRepo.ErrStaffNotFound
	}
	s.Schedule = schedule
	return nil
}

type fakeServiceRepo struct{ services map[int64]int64 } // serviceID -> organizationID

func (f *fakeServiceRepo) GetByID(_ context.Context, organizationID, id int64) (*domain.Service, error) {
	org, ok := f.services[id]
	if !ok || org != organizationID {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return &domain.Service{ID: id, OrganizationID: org, DurationMinutes: 60, IsActive: true}, nil
}

type fakeTx struct{ calls int }

func (f *fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeCache struct {
	invalidated []int64
	err         error
}

func (f *fakeCache) InvalidateStaff(_ context.Context, _, staffID int64) error {
	f.invalidated = append(f.invalidated, staffID)
	return f.err
}

func newTestService() (*Service, *fakeStaffRepo, *fakeTx, *fakeCache) {
	repo := &fakeStaffRepo{staff: map[int64]*domain.Staff{}}
	services := &fakeServiceRepo{services: map[int64]int64{3: 1, 4: 1, 5: 2}}
	tx := &fakeTx{}
	cache := &fakeCache{}

	svc := NewService(repo, services, tx, logger.Nop())
	svc.UseCache(cache)
	return svc, repo, tx, cache
}

func splitSchedule() domain.WeeklySchedule {
	schedule := domain.DefaultWeeklySchedule()
	schedule.Wednesday = domain.DaySchedule{Shifts: []domain.Shift{
		{Start: types.MustTimeString("08:00"), End: types.MustTimeString("12:00")},
		{Start: types.MustTimeString("13:00"), End: types.MustTimeString("18:00")},
	}}
	return schedule
}

func TestCreate_DefaultSchedule(t *testing.T) {
	svc, repo, tx, _ := newTestService()

	resp, err := svc.Create(context.Background(), 1, &models.CreateStaffRequest{
		Name:       "  Ana  ",
		ServiceIDs: []int64{3, 4, 3},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "Ana", resp.Name)
	assert.True(t, resp.IsActive)
	assert.Equal(t, []int64{3, 4}, resp.ServiceIDs)
	assert.Equal(t, domain.DefaultWeeklySchedule(), resp.Schedule)
	assert.Equal(t, 1, tx.calls)
	assert.Contains(t, repo.staff, int64(1))
}

func TestCreate_CustomSchedule(t *testing.T) {
	svc, _, _, _ := newTestService()
	schedule := splitSchedule()

	resp, err := svc.Create(context.Background(), 1, &models.CreateStaffRequest{Name: "Ana", Schedule: &schedule})

	require.NoError(t, err)
	assert.Len(t, resp.Schedule.Wednesday.Shifts, 2)
	assert.Equal(t, []int64{}, resp.ServiceIDs)
}

func TestCreate_Errors(t *testing.T) {
	overlapping := splitSchedule()
	overlapping.Wednesday.Shifts[1].Start = types.MustTimeString("11:00")

	tests := []struct {
		name    string
		req     *models.CreateStaffRequest
		wantErr error
		kind    string
	}{
		{"empty name", &models.CreateStaffRequest{Name: "  "}, ErrInvalidInput, domain.KindValidation},
		{"bad service id", &models.CreateStaffRequest{Name: "Ana", ServiceIDs: []int64{0}}, ErrInvalidInput, domain.KindValidation},
		{"overlapping shifts", &models.CreateStaffRequest{Name: "Ana", Schedule: &overlapping}, ErrInvalidSchedule, domain.KindValidation},
		{"unknown service", &models.CreateStaffRequest{Name: "Ana", ServiceIDs: []int64{99}}, ErrServiceNotFound, domain.KindNotFound},
		{"service of another organization", &models.CreateStaffRequest{Name: "Ana", ServiceIDs: []int64{5}}, ErrServiceNotFound, domain.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, _ := newTestService()

			_, err := svc.Create(context.Background(), 1, tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.kind, domain.KindOf(err))
			assert.Empty(t, repo.staff)
		})
	}
}

func TestCreate_RepositoryError(t *testing.T) {
	svc, repo, _, _ := newTestService()
	repo.createErr = errors.New("connection reset")

	_, err := svc.Create(context.Background(), 1, &models.CreateStaffRequest{Name: "Ana"})

	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}

func TestGetSchedule(t *testing.T) {
	svc, _, _, _ := newTestService()
	created, err := svc.Create(context.Background(), 1, &models.CreateStaffRequest{Name: "Ana"})
	require.NoError(t, err)

	resp, err := svc.GetSchedule(context.Background(), 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.StaffID)
	assert.True(t, resp.Schedule.Sunday.IsOff)

	_, err = svc.GetSchedule(context.Background(), 2, created.ID)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestUpdateSchedule(t *testing.T) {
	svc, repo, _, cache := newTestService()
	created, err := svc.Create(context.Background(), 1, &models.CreateStaffRequest{Name: "Ana"})
	require.NoError(t, err)

	resp, err := svc.UpdateSchedule(context.Background(), 1, created.ID, splitSchedule())

	require.NoError(t, err)
	assert.Len(t, resp.Schedule.Wednesday.Shifts, 2)
	assert.Len(t, repo.staff[created.ID].Schedule.Wednesday.Shifts, 2)
	assert.Equal(t, []int64{created.ID}, cache.invalidated)
}

func TestUpdateSchedule_CacheFailureIgnored(t *testing.T) {
	svc, _, _, cache := newTestService()
	cache.err = errors.New("redis down")
	created, err := svc.Create(context.Background(), 1, &models.CreateStaffRequest{Name: "Ana"})
	require.NoError(t, err)

	_, err = svc.UpdateSchedule(context.Background(), 1, created.ID, splitSchedule())

	assert.NoError(t, err)
}

func TestUpdateSchedule_Errors(t *testing.T) {
	svc, repo, _, cache := newTestService()
	created, err := svc.Create(context.Background(), 1, &models.CreateStaffRequest{Name: "Ana"})
	require.NoError(t, err)

	threeShifts := splitSchedule()
	threeShifts.Wednesday.Shifts = append(threeShifts.Wednesday.Shifts, domain.Shift{
		Start: types.MustTimeString("19:00"), End: types.MustTimeString("20:00"),
	})

	_, err = svc.UpdateSchedule(context.Background(), 1, created.ID, threeShifts)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
	assert.Equal(t, domain.DefaultWeeklySchedule(), repo.staff[created.ID].Schedule)

	_, err = svc.UpdateSchedule(context.Background(), 1, 42, splitSchedule())
	assert.ErrorIs(t, err, ErrStaffNotFound)

	assert.Empty(t, cache.invalidated)
}
