package update_staff_schedule

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/staff/models"
)

type StaffService interface {
	UpdateSchedule(ctx context.Context, organizationID, staffID int64, schedule domain.WeeklySchedule) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
