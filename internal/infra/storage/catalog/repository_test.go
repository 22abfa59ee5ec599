package catalog

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
)

func TestGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(dbmetrics.Wrap(db, nil))

	mock.ExpectQuery("SELECT id, organization_id, name, duration_minutes, price, is_active FROM services WHERE id = \\$1 AND organization_id = \\$2").
		WithArgs(int64(3), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "name", "duration_minutes", "price", "is_active"}).
			AddRow(int64(3), int64(1), "Escova", 45, "60.00", true))

	service, err := repo.GetByID(context.Background(), 1, 3)

	require.NoError(t, err)
	assert.Equal(t, 45, service.DurationMinutes)
	assert.Equal(t, float64(60), service.Price)
	assert.True(t, service.IsActive)
}

func TestGetByID_OtherOrganizationIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(dbmetrics.Wrap(db, nil))

	mock.ExpectQuery("SELECT (.+) FROM services").
		WithArgs(int64(3), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "name", "duration_minutes", "price", "is_active"}))

	_, err = repo.GetByID(context.Background(), 2, 3)

	assert.ErrorIs(t, err, ErrServiceNotFound)
}
