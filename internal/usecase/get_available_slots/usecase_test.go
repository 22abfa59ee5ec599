package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/catalog"
	staffRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SalonService/pkg/logger"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeAppointments struct {
	records []domain.BookingRecord
	calls   int
	err     error
	onRead  func()
}

func (f *fakeAppointments) GetActiveByStaffAndDate(_ context.Context, _, _ int64, _ time.Time) ([]domain.BookingRecord, error) {
	f.calls++
	records := f.records
	if f.onRead != nil {
		f.onRead()
	}
	return records, f.err
}

type fakeStaff struct{ staff map[int64]*domain.Staff }

func (f *fakeStaff) GetByID(_ context.Context, organizationID, id int64) (*domain.Staff, error) {
	s, ok := f.staff[id]
	if !ok || s.OrganizationID != organizationID {
		return nil, staffRepo.ErrStaffNotFound
	}
	return s, nil
}

type fakeServices struct{ services map[int64]*domain.Service }

func (f *fakeServices) GetByID(_ context.Context, organizationID, id int64) (*domain.Service, error) {
	s, ok := f.services[id]
	if !ok || s.OrganizationID != organizationID {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return s, nil
}

// fakeCache повторяет семантику поколений Redis-кэша
type fakeCache struct {
	data       map[string][]types.TimeString
	generation int64
	sets       int
}

func (f *fakeCache) key(staffID int64, date time.Time, serviceID int64) string {
	return fmt.Sprintf("%d:%s:%d", staffID, date.Format(domain.DateFormat), serviceID)
}

func (f *fakeCache) Get(_ context.Context, _, staffID int64, date time.Time, serviceID int64) ([]types.TimeString, bool, error) {
	slots, ok := f.data[f.key(staffID, date, serviceID)]
	return slots, ok, nil
}

func (f *fakeCache) Generation(_ context.Context, _, _ int64, _ time.Time) (int64, error) {
	return f.generation, nil
}

func (f *fakeCache) Set(_ context.Context, _, staffID int64, date time.Time, serviceID int64, generation int64, slots []types.TimeString) error {
	if generation != f.generation {
		return nil
	}
	f.sets++
	f.data[f.key(staffID, date, serviceID)] = slots
	return nil
}

func (f *fakeCache) invalidate() {
	f.generation++
	f.data = map[string][]types.TimeString{}
}

var loc = mustLoad("America/Sao_Paulo")

func mustLoad(name string) *time.Location {
	l, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return l
}

// 2025-03-12 - среда
var wednesday = time.Date(2025, 3, 12, 0, 0, 0, 0, loc)

func morningSchedule() domain.WeeklySchedule {
	s := domain.DefaultWeeklySchedule()
	s.Wednesday = domain.DaySchedule{Shifts: []domain.Shift{{
		Start: types.MustTimeString("08:00"),
		End:   types.MustTimeString("12:00"),
	}}}
	return s
}

type fixture struct {
	uc           *UseCase
	appointments *fakeAppointments
}

func newFixture(now time.Time) *fixture {
	appointments := &fakeAppointments{}
	staff := &fakeStaff{staff: map[int64]*domain.Staff{
		7: {ID: 7, OrganizationID: 1, Name: "Ana", IsActive: true, Schedule: morningSchedule(), ServiceIDs: []int64{3}},
		8: {ID: 8, OrganizationID: 1, Name: "Bia", IsActive: false, Schedule: morningSchedule(), ServiceIDs: []int64{3}},
	}}
	services := &fakeServices{services: map[int64]*domain.Service{
		3: {ID: 3, OrganizationID: 1, Name: "Corte", DurationMinutes: 60, IsActive: true},
		4: {ID: 4, OrganizationID: 1, Name: "Coloração", DurationMinutes: 120, IsActive: true},
		5: {ID: 5, OrganizationID: 1, Name: "Antigo", DurationMinutes: 30, IsActive: false},
		6: {ID: 6, OrganizationID: 1, Name: "Sem duração", DurationMinutes: 0, IsActive: true},
		10: {ID: 10, OrganizationID: 1, Name: "Dia de noiva", DurationMinutes: 780, IsActive: true},
	}}

	uc := NewUseCase(appointments, staff, services, loc, logger.Nop())
	uc.timeProvider = fixedTime{now: now}

	return &fixture{uc: uc, appointments: appointments}
}

func slotsOf(values ...string) []types.TimeString {
	out := make([]types.TimeString, len(values))
	for i, v := range values {
		out[i] = types.MustTimeString(v)
	}
	return out
}

func record(start string, minutes int, status domain.AppointmentStatus) domain.BookingRecord {
	return domain.BookingRecord{
		Start:           types.MustTimeString(start).OnDate(wednesday),
		DurationMinutes: minutes,
		Status:          status,
	}
}

func TestExecute_RemovesBookedSlots(t *testing.T) {
	f := newFixture(wednesday.AddDate(0, 0, -2))
	f.appointments.records = []domain.BookingRecord{
		record("09:00", 60, domain.StatusConfirmed),
		record("10:00", 60, domain.StatusCancelledByClient),
	}

	resp, err := f.uc.Execute(context.Background(), &Request{OrganizationID: 1, StaffID: 7, ServiceID: 3, Date: wednesday})

	require.NoError(t, err)
	// 08:30 и 09:30 пересекаются с 09:00-10:00, отменённая запись ничего не блокирует
	assert.Equal(t, slotsOf("08:00", "10:00", "10:30", "11:00"), resp.Slots)
	assert.Equal(t, wednesday, resp.Date)
}

func TestExecute_TodayDropsStartedSlots(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 12, 10, 15, 0, 0, loc))

	resp, err := f.uc.Execute(context.Background(), &Request{OrganizationID: 1, StaffID: 7, ServiceID: 3, Date: wednesday})

	require.NoError(t, err)
	assert.Equal(t, slotsOf("10:30", "11:00"), resp.Slots)
}

func TestExecute_TodayIsDecidedInCanonicalZone(t *testing.T) {
	// 02:00 UTC 13 марта - это ещё 23:00 12 марта в Сан-Паулу
	f := newFixture(time.Date(2025, 3, 13, 2, 0, 0, 0, time.UTC))

	resp, err := f.uc.Execute(context.Background(), &Request{OrganizationID: 1, StaffID: 7, ServiceID: 3, Date: wednesday})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_FutureDayKeepsMorningSlots(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 11, 23, 0, 0, 0, loc))

	resp, err := f.uc.Execute(context.Background(), &Request{OrganizationID: 1, StaffID: 7, ServiceID: 3, Date: wednesday})

	require.NoError(t, err)
	assert.Equal(t, slotsOf("08:00", "08:30", "09:00", "09:30", "10:00", "10:30", "11:00"), resp.Slots)
}

func TestExecute_PastDateIsEmpty(t *testing.T) {
	f := newFixture(wednesday.AddDate(0, 0, 1))

	resp, err := f.uc.Execute(context.Background(), &Request{OrganizationID: 1, StaffID: 7, ServiceID: 3, Date: wednesday})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Zero(t, f.appointments.calls)
}

func TestExecute_DayOffIsEmpty(t *testing.T) {
	f := newFixture(wednesday)
	sunday := time.Date(2025, 3, 16, 0, 0, 0, 0, loc)

	resp, err := f.uc.Execute(context.Background(), &Request{OrganizationID: 1, StaffID: 7, ServiceID: 3, Date: sunday})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Zero(t, f.appointments.calls)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want error
		kind error
	}{
		{"missing date", Request{OrganizationID: 1, StaffID: 7, ServiceID: 3}, ErrInvalidInput, domain.ErrValidation},
		{"unknown service", Request{OrganizationID: 1, StaffID: 7, ServiceID: 99, Date: wednesday}, ErrServiceNotFound, domain.ErrNotFound},
		{"service of other organization", Request{OrganizationID: 2, StaffID: 7, ServiceID: 3, Date: wednesday}, ErrServiceNotFound, domain.ErrNotFound},
		{"inactive service", Request{OrganizationID: 1, StaffID: 7, ServiceID: 5, Date: wednesday}, ErrServiceInactive, domain.ErrValidation},
		{"zero duration service", Request{OrganizationID: 1, StaffID: 7, ServiceID: 6, Date: wednesday}, ErrInvalidServiceDuration, domain.ErrValidation},
		{"too long service", Request{OrganizationID: 1, StaffID: 7, ServiceID: 10, Date: wednesday}, ErrInvalidServiceDuration, domain.ErrValidation},
		{"unknown staff", Request{OrganizationID: 1, StaffID: 99, ServiceID: 3, Date: wednesday}, ErrStaffNotFound, domain.ErrNotFound},
		{"inactive staff", Request{OrganizationID: 1, StaffID: 8, ServiceID: 3, Date: wednesday}, ErrStaffInactive, domain.ErrValidation},
		{"service not performed", Request{OrganizationID: 1, StaffID: 7, ServiceID: 4, Date: wednesday}, ErrServiceNotPerformed, domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(wednesday.AddDate(0, 0, -1))
			req := tt.req

			_, err := f.uc.Execute(context.Background(), &req)

			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestExecute_RepositoryFailureIsInternal(t *testing.T) {
	f := newFixture(wednesday.AddDate(0, 0, -1))
	f.appointments.err = errors.New("connection refused")

	_, err := f.uc.Execute(context.Background(), &Request{OrganizationID: 1, StaffID: 7, ServiceID: 3, Date: wednesday})

	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}

func TestExecute_CacheHitSkipsRepository(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 12, 9, 10, 0, 0, loc))
	cache := &fakeCache{data: map[string][]types.TimeString{}}
	f.uc.UseCache(cache)
	require.NoError(t, cache.Set(context.Background(), 1, 7, wednesday, 3, 0, slotsOf("08:00", "09:30", "11:00")))

	resp, err := f.uc.Execute(context.Background(), &Request{OrganizationID: 1, StaffID: 7, ServiceID: 3, Date: wednesday})

	require.NoError(t, err)
	assert.Zero(t, f.appointments.calls)
	// прошедшее время отсекается и для закэшированных слотов
	assert.Equal(t, slotsOf("09:30", "11:00"), resp.Slots)
}

func TestExecute_CacheMissStoresUnfilteredSlots(t *testing.T) {
	f := newFixture(time.Date(2025, 3, 12, 10, 15, 0, 0, loc))
	cache := &fakeCache{data: map[string][]types.TimeString{}}
	f.uc.UseCache(cache)

	resp, err := f.uc.Execute(context.Background(), &Request{OrganizationID: 1, StaffID: 7, ServiceID: 3, Date: wednesday})
	require.NoError(t, err)
	assert.Equal(t, slotsOf("10:30", "11:00"), resp.Slots)
	assert.Equal(t, 1, cache.sets)

	cached, hit, _ := cache.Get(context.Background(), 1, 7, wednesday, 3)
	require.True(t, hit)
	assert.Len(t, cached, 7)

	_, err = f.uc.Execute(context.Background(), &Request{OrganizationID: 1, StaffID: 7, ServiceID: 3, Date: wednesday})
	require.NoError(t, err)
	assert.Equal(t, 1, f.appointments.calls)
}

func TestExecute_BookingDuringReadIsNotCached(t *testing.T) {
	f := newFixture(wednesday.AddDate(0, 0, -1))
	cache := &fakeCache{data: map[string][]types.TimeString{}}
	f.uc.UseCache(cache)

	// запись создается после того, как слоты прочитаны из БД, но до записи в кэш
	f.appointments.onRead = func() {
		f.appointments.records = []domain.BookingRecord{record("09:00", 60, domain.StatusPending)}
		cache.invalidate()
	}

	resp, err := f.uc.Execute(context.Background(), &Request{OrganizationID: 1, StaffID: 7, ServiceID: 3, Date: wednesday})
	require.NoError(t, err)
	assert.Contains(t, resp.Slots, types.MustTimeString("09:00"))
	assert.Zero(t, cache.sets)

	_, hit, _ := cache.Get(context.Background(), 1, 7, wednesday, 3)
	assert.False(t, hit)

	// следующий запрос идет в БД и видит новую запись
	f.appointments.onRead = nil
	resp, err = f.uc.Execute(context.Background(), &Request{OrganizationID: 1, StaffID: 7, ServiceID: 3, Date: wednesday})
	require.NoError(t, err)
	assert.Equal(t, 2, f.appointments.calls)
	assert.NotContains(t, resp.Slots, types.MustTimeString("09:00"))
	assert.Equal(t, 1, cache.sets)
}

func TestExecute_WithoutCacheMatchesCachedPath(t *testing.T) {
	now := time.Date(2025, 3, 12, 9, 10, 0, 0, loc)
	req := &Request{OrganizationID: 1, StaffID: 7, ServiceID: 3, Date: wednesday}
	booked := []domain.BookingRecord{record("10:30", 30, domain.StatusConfirmed)}

	plain := newFixture(now)
	plain.appointments.records = booked
	withoutCache, err := plain.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	cached := newFixture(now)
	cached.appointments.records = booked
	cached.uc.UseCache(&fakeCache{data: map[string][]types.TimeString{}})
	withCache, err := cached.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, slotsOf("09:30", "11:00"), withoutCache.Slots)
	assert.Equal(t, withoutCache.Slots, withCache.Slots)
}
