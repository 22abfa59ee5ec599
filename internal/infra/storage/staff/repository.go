package staff

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
)

const (
	table         = "staff"
	servicesTable = "staff_services"
)

// Repository репозиторий для работы с мастерами и их расписанием
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория мастеров
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает мастера и привязывает к нему услуги
// Должен вызываться внутри транзакции, если услуги переданы
func (r *Repository) Create(ctx context.Context, staff *domain.Staff) (*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	schedule, err := json.Marshal(staff.Schedule)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal schedule: %v", ErrSchedule, err)
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns("organization_id", "name", "phone", "is_active", "schedule").
		Values(staff.OrganizationID, staff.Name, staff.Phone, staff.IsActive, schedule).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&staff.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	staff.CreatedAt = createdAt.Time
	staff.UpdatedAt = updatedAt.Time

	if len(staff.ServiceIDs) == 0 {
		return staff, nil
	}

	insertBuilder := psqlbuilder.Insert(servicesTable).Columns("staff_id", "service_id")
	for _, serviceID := range staff.ServiceIDs {
		insertBuilder = insertBuilder.Values(staff.ID, serviceID)
	}

	query, args, err = insertBuilder.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build staff_services insert: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Create - insert staff_services: %v", ErrExecQuery, err)
	}

	return staff, nil
}

// GetByID получает мастера организации вместе со списком услуг
// Внутри транзакции строка мастера блокируется (FOR UPDATE): записи к одному мастеру выполняются по очереди
func (r *Repository) GetByID(ctx context.Context, organizationID, id int64) (*domain.Staff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"organization_id",
		"name",
		"phone",
		"is_active",
		"schedule",
		"created_at",
		"updated_at",
	).
		From(table).
		Where(squirrel.Eq{"id": id, "organization_id": organizationID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var staff domain.Staff
	var phone sql.NullString
	var schedule []byte
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&staff.ID,
		&staff.OrganizationID,
		&staff.Name,
		&phone,
		&staff.IsActive,
		&schedule,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan staff: %w", ErrScanRow, err)
	}

	if err := json.Unmarshal(schedule, &staff.Schedule); err != nil {
		return nil, fmt.Errorf("%w: GetByID - staff_id=%d: %v", ErrSchedule, id, err)
	}
	if phone.Valid {
		staff.Phone = &phone.String
	}
	staff.CreatedAt = createdAt.Time
	staff.UpdatedAt = updatedAt.Time

	staff.ServiceIDs, err = r.getServiceIDs(ctx, executor, id)
	if err != nil {
		return nil, err
	}

	return &staff, nil
}

// UpdateSchedule полностью заменяет расписание мастера
func (r *Repository) UpdateSchedule(ctx context.Context, organizationID, id int64, schedule domain.WeeklySchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	payload, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - marshal schedule: %v", ErrSchedule, err)
	}

	query, args, err := psqlbuilder.Update(table).
		Set("schedule", payload).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "organization_id": organizationID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStaffNotFound
	}

	return nil
}

func (r *Repository) getServiceIDs(ctx context.Context, executor DBExecutor, staffID int64) ([]int64, error) {
	query, args, err := psqlbuilder.Select("service_id").
		From(servicesTable).
		Where(squirrel.Eq{"staff_id": staffID}).
		OrderBy("service_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getServiceIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getServiceIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: getServiceIDs - scan row: %w", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getServiceIDs - rows error: %w", ErrScanRow, err)
	}

	return ids, nil
}
