package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

const table = "appointments"

var columns = []string{
	"id",
	"organization_id",
	"staff_id",
	"service_id",
	"client_id",
	"appointment_date",
	"start_time",
	"start_at",
	"end_at",
	"duration_minutes",
	"status",
	"service_name",
	"service_price",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями
type Repository struct {
	db  DBExecutor
	loc *time.Location
}

// NewRepository создает новый экземпляр репозитория записей.
// loc - каноническая временная зона, в которой возвращаются даты и моменты времени.
func NewRepository(db DBExecutor, loc *time.Location) *Repository {
	return &Repository{db: db, loc: loc}
}

// Create создает новую запись
// Если в контексте передана активная транзакция, использует её.
// Нарушение уникального индекса или ограничения на пересечение возвращается как ErrSlotConflict.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"organization_id",
			"staff_id",
			"service_id",
			"client_id",
			"appointment_date",
			"start_time",
			"start_at",
			"end_at",
			"duration_minutes",
			"status",
			"service_name",
			"service_price",
			"notes",
		).
		Values(
			appt.OrganizationID,
			appt.StaffID,
			appt.ServiceID,
			appt.ClientID,
			appt.Date.Format(domain.DateFormat),
			appt.StartTime,
			appt.StartAt,
			appt.EndAt,
			appt.DurationMinutes,
			string(appt.Status),
			appt.ServiceName,
			appt.ServicePrice,
			appt.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if IsSlotConflict(err) {
			return nil, fmt.Errorf("%w: Create - staff_id=%v start_at=%s: %w", ErrSlotConflict, appt.StaffID, appt.StartAt.Format(time.RFC3339), err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись организации по ID
// Запись другой организации неотличима от отсутствующей
func (r *Repository) GetByID(ctx context.Context, organizationID, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id, "organization_id": organizationID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := r.scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// GetByOrganizationWithFilter получает записи организации с гибкой фильтрацией
// Поддерживает фильтрацию по:
// - Мастеру (StaffID) и клиенту (ClientID) - опционально
// - Периоду (StartDate, EndDate) - опционально
// - Статусу (Status) - опционально
// - Включению неактивных записей (IncludeInactive)
func (r *Repository) GetByOrganizationWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"organization_id": filter.OrganizationID})

	if filter.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}
	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}

	// Фильтрация по периоду
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"appointment_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"appointment_date": filter.EndDate.Format(domain.DateFormat)})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)})
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		// Для конкретной даты сортируем по времени начала (ASC)
		selectBuilder = selectBuilder.OrderBy("start_at ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("start_at DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrganizationWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOrganizationWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// GetActiveByStaffAndDate получает активные записи мастера на дату.
// Внутри транзакции строки блокируются (FOR UPDATE) до её завершения.
func (r *Repository) GetActiveByStaffAndDate(ctx context.Context, organizationID, staffID int64, date time.Time) ([]domain.BookingRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("staff_id", "start_at", "duration_minutes", "status").
		From(table).
		Where(squirrel.Eq{
			"organization_id":  organizationID,
			"staff_id":         staffID,
			"appointment_date": date.Format(domain.DateFormat),
			"status":           statusStrings(domain.ActiveStatuses),
		}).
		OrderBy("start_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByStaffAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByStaffAndDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	records := make([]domain.BookingRecord, 0)
	for rows.Next() {
		var rec domain.BookingRecord
		var staff sql.NullInt64
		var status string
		if err := rows.Scan(&staff, &rec.Start, &rec.DurationMinutes, &status); err != nil {
			return nil, fmt.Errorf("%w: GetActiveByStaffAndDate - scan row: %w", ErrScanRow, err)
		}
		if staff.Valid {
			id := staff.Int64
			rec.StaffID = &id
		}
		rec.Start = rec.Start.In(r.loc)
		rec.Status = domain.AppointmentStatus(status)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveByStaffAndDate - rows error: %w", ErrScanRow, err)
	}

	return records, nil
}

// CountActiveAtTime считает активные записи организации, начинающиеся ровно в date+startTime
// Используется для мягкого предупреждения при записи без мастера
func (r *Repository) CountActiveAtTime(ctx context.Context, organizationID int64, date time.Time, startTime types.TimeString) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(table).
		Where(squirrel.Eq{
			"organization_id":  organizationID,
			"appointment_date": date.Format(domain.DateFormat),
			"start_time":       startTime,
			"status":           statusStrings(domain.ActiveStatuses),
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveAtTime - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveAtTime - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// UpdateStatusIfCurrent меняет статус, только если текущий статус входит в t.From.
// Если ни одна строка не изменилась, возвращает ErrAppointmentNotFound и не трогает запись.
func (r *Repository) UpdateStatusIfCurrent(ctx context.Context, t domain.StatusTransition) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(table).
		Set("status", string(t.To)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":              t.AppointmentID,
			"organization_id": t.OrganizationID,
			"status":          statusStrings(t.From),
		})

	if t.ClientID != nil {
		updateBuilder = updateBuilder.Where(squirrel.Eq{"client_id": *t.ClientID})
	}

	if t.IsCancellation() {
		updateBuilder = updateBuilder.
			Set("cancellation_reason", t.Reason).
			Set("cancelled_at", squirrel.Expr("NOW()"))
	}

	query, args, err := updateBuilder.Suffix("RETURNING " + strings.Join(columns, ", ")).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatusIfCurrent - build update query: %v", ErrBuildQuery, err)
	}

	appt, err := r.scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatusIfCurrent - execute update: %v", ErrExecQuery, err)
	}

	return appt, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAppointment сканирует одну строку в доменную модель
func (r *Repository) scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var staffID sql.NullInt64
	var status string
	var notes, reason sql.NullString
	var cancelledAt, createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.OrganizationID,
		&staffID,
		&appt.ServiceID,
		&appt.ClientID,
		&appt.Date,
		&appt.StartTime,
		&appt.StartAt,
		&appt.EndAt,
		&appt.DurationMinutes,
		&status,
		&appt.ServiceName,
		&appt.ServicePrice,
		&notes,
		&reason,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if staffID.Valid {
		id := staffID.Int64
		appt.StaffID = &id
	}
	if notes.Valid {
		appt.Notes = &notes.String
	}
	if reason.Valid {
		appt.CancellationReason = &reason.String
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		appt.CancelledAt = &t
	}

	// DATE приходит без зоны: переносим календарную дату в каноническую зону
	appt.Date = time.Date(appt.Date.Year(), appt.Date.Month(), appt.Date.Day(), 0, 0, 0, 0, r.loc)
	appt.StartAt = appt.StartAt.In(r.loc)
	appt.EndAt = appt.EndAt.In(r.loc)
	appt.Status = domain.AppointmentStatus(status)
	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := r.scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

func statusStrings(statuses []domain.AppointmentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
