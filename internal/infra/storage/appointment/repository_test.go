package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
	"github.com/m04kA/SMC-SalonService/pkg/txmanager"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

func newRepo(t *testing.T) (*Repository, *sql.DB, sqlmock.Sqlmock, *time.Location) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	return NewRepository(dbmetrics.Wrap(db, nil), loc), db, mock, loc
}

func newAppointment(loc *time.Location) *domain.Appointment {
	start := time.Date(2025, 3, 12, 14, 0, 0, 0, loc)
	return &domain.Appointment{
		OrganizationID:  1,
		StaffID:         ptr.Ptr(int64(7)),
		ServiceID:       3,
		ClientID:        9,
		Date:            time.Date(2025, 3, 12, 0, 0, 0, 0, loc),
		StartTime:       types.MustTimeString("14:00"),
		StartAt:         start,
		EndAt:           start.Add(time.Hour),
		DurationMinutes: 60,
		Status:          domain.StatusPending,
		ServiceName:     "Corte",
		ServicePrice:    80,
	}
}

func appointmentRows(loc *time.Location, status domain.AppointmentStatus) *sqlmock.Rows {
	start := time.Date(2025, 3, 12, 17, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(columns).AddRow(
		int64(42), int64(1), int64(7), int64(3), int64(9),
		time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), "14:00:00",
		start, start.Add(time.Hour), 60, string(status),
		"Corte", "80.00", nil, nil, nil, now, now,
	)
}

func TestCreate(t *testing.T) {
	repo, _, mock, loc := newRepo(t)
	created := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(int64(1), ptr.Ptr(int64(7)), int64(3), int64(9), "2025-03-12", "14:00",
			sqlmock.AnyArg(), sqlmock.AnyArg(), 60, "pending", "Corte", float64(80), nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), created, created))

	appt, err := repo.Create(context.Background(), newAppointment(loc))

	require.NoError(t, err)
	assert.Equal(t, int64(42), appt.ID)
	assert.Equal(t, created, appt.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ConstraintViolationIsSlotConflict(t *testing.T) {
	for _, code := range []string{"23505", "23P01", "40001"} {
		t.Run(code, func(t *testing.T) {
			repo, _, mock, loc := newRepo(t)
			mock.ExpectQuery("INSERT INTO appointments").
				WillReturnError(&pq.Error{Code: pq.ErrorCode(code), Message: "constraint"})

			_, err := repo.Create(context.Background(), newAppointment(loc))

			assert.ErrorIs(t, err, ErrSlotConflict)
			assert.True(t, IsSlotConflict(err))
		})
	}
}

func TestCreate_OtherErrorIsExecQuery(t *testing.T) {
	repo, _, mock, loc := newRepo(t)
	mock.ExpectQuery("INSERT INTO appointments").
		WillReturnError(&pq.Error{Code: "23503", Message: "foreign key"})

	_, err := repo.Create(context.Background(), newAppointment(loc))

	assert.ErrorIs(t, err, ErrExecQuery)
	assert.False(t, IsSlotConflict(err))
}

func TestGetByID(t *testing.T) {
	repo, _, mock, loc := newRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM appointments WHERE id = \\$1 AND organization_id = \\$2").
		WithArgs(int64(42), int64(1)).
		WillReturnRows(appointmentRows(loc, domain.StatusConfirmed))

	appt, err := repo.GetByID(context.Background(), 1, 42)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, appt.Status)
	assert.Equal(t, "14:00", appt.StartTime.String())
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, loc), appt.Date)
	assert.Equal(t, 14, appt.StartAt.Hour())
	assert.Equal(t, float64(80), appt.ServicePrice)
	require.NotNil(t, appt.StaffID)
	assert.Equal(t, int64(7), *appt.StaffID)
	assert.Nil(t, appt.Notes)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, _, mock, _ := newRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM appointments").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 2, 42)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetActiveByStaffAndDate_LocksInsideTransaction(t *testing.T) {
	repo, db, mock, loc := newRepo(t)
	day := time.Date(2025, 3, 12, 0, 0, 0, 0, loc)
	start := time.Date(2025, 3, 12, 17, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT staff_id, start_at, duration_minutes, status FROM appointments WHERE (.+) FOR UPDATE").
		WithArgs("2025-03-12", int64(1), int64(7), "pending", "confirmed").
		WillReturnRows(sqlmock.NewRows([]string{"staff_id", "start_at", "duration_minutes", "status"}).
			AddRow(int64(7), start, 60, "confirmed"))
	mock.ExpectCommit()

	tm := txmanager.NewTransactionManager(dbmetrics.Wrap(db, nil), 0)
	var records []domain.BookingRecord
	err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
		var err error
		records, err = repo.GetActiveByStaffAndDate(ctx, 1, 7, day)
		return err
	})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.StatusConfirmed, records[0].Status)
	assert.Equal(t, loc, records[0].Start.Location())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetActiveByStaffAndDate_NoLockOutsideTransaction(t *testing.T) {
	repo, _, mock, loc := newRepo(t)
	mock.ExpectQuery("SELECT staff_id, start_at, duration_minutes, status FROM appointments WHERE (.+) ORDER BY start_at ASC$").
		WillReturnRows(sqlmock.NewRows([]string{"staff_id", "start_at", "duration_minutes", "status"}))

	records, err := repo.GetActiveByStaffAndDate(context.Background(), 1, 7, time.Date(2025, 3, 12, 0, 0, 0, 0, loc))

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetActiveByStaffAndDate_SerializationFailureIsSlotConflict(t *testing.T) {
	repo, _, mock, loc := newRepo(t)
	mock.ExpectQuery("SELECT staff_id, start_at, duration_minutes, status FROM appointments").
		WillReturnError(&pq.Error{Code: "40001"})

	_, err := repo.GetActiveByStaffAndDate(context.Background(), 1, 7, time.Date(2025, 3, 12, 0, 0, 0, 0, loc))

	assert.ErrorIs(t, err, ErrExecQuery)
	assert.True(t, IsSlotConflict(err))
}

func TestCountActiveAtTime_SerializationFailureIsSlotConflict(t *testing.T) {
	repo, _, mock, loc := newRepo(t)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM appointments").
		WillReturnError(&pq.Error{Code: "40001"})

	_, err := repo.CountActiveAtTime(context.Background(), 1, time.Date(2025, 3, 12, 0, 0, 0, 0, loc), types.MustTimeString("14:00"))

	assert.ErrorIs(t, err, ErrScanRow)
	assert.True(t, IsSlotConflict(err))
}

func TestCountActiveAtTime(t *testing.T) {
	repo, _, mock, loc := newRepo(t)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM appointments").
		WithArgs("2025-03-12", int64(1), "14:00", "pending", "confirmed").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountActiveAtTime(context.Background(), 1, time.Date(2025, 3, 12, 0, 0, 0, 0, loc), types.MustTimeString("14:00"))

	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUpdateStatusIfCurrent(t *testing.T) {
	repo, _, mock, loc := newRepo(t)
	mock.ExpectQuery("UPDATE appointments SET status = \\$1, updated_at = NOW\\(\\) WHERE (.+) RETURNING").
		WithArgs("confirmed", int64(42), int64(1), "pending").
		WillReturnRows(appointmentRows(loc, domain.StatusConfirmed))

	appt, err := repo.UpdateStatusIfCurrent(context.Background(), domain.StatusTransition{
		OrganizationID: 1,
		AppointmentID:  42,
		From:           []domain.AppointmentStatus{domain.StatusPending},
		To:             domain.StatusConfirmed,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, appt.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusIfCurrent_CancellationStoresReason(t *testing.T) {
	repo, _, mock, loc := newRepo(t)
	mock.ExpectQuery("UPDATE appointments SET status = \\$1, updated_at = NOW\\(\\), cancellation_reason = \\$2, cancelled_at = NOW\\(\\) WHERE (.+) AND client_id = \\$\\d RETURNING").
		WillReturnRows(appointmentRows(loc, domain.StatusCancelledByClient))

	appt, err := repo.UpdateStatusIfCurrent(context.Background(), domain.StatusTransition{
		OrganizationID: 1,
		AppointmentID:  42,
		ClientID:       ptr.Ptr(int64(9)),
		From:           []domain.AppointmentStatus{domain.StatusPending, domain.StatusConfirmed},
		To:             domain.StatusCancelledByClient,
		Reason:         ptr.Ptr("сменились планы"),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelledByClient, appt.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusIfCurrent_NoRowsIsNotFound(t *testing.T) {
	repo, _, mock, _ := newRepo(t)
	mock.ExpectQuery("UPDATE appointments").WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.UpdateStatusIfCurrent(context.Background(), domain.StatusTransition{
		OrganizationID: 1,
		AppointmentID:  42,
		From:           []domain.AppointmentStatus{domain.StatusPending},
		To:             domain.StatusConfirmed,
	})

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestIsSlotConflict(t *testing.T) {
	serialization := &pq.Error{Code: "40001"}

	assert.True(t, IsSlotConflict(fmt.Errorf("%w: %w", txmanager.ErrCommitTx, serialization)))
	assert.True(t, IsSlotConflict(ErrSlotConflict))
	assert.False(t, IsSlotConflict(errors.New("connection reset")))
	assert.False(t, IsSlotConflict(nil))
}
