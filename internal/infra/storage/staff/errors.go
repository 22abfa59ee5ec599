package staff

import "errors"

var (
	// ErrStaffNotFound возвращается, когда мастер не найден в организации
	ErrStaffNotFound = errors.New("staff.repository: staff not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("staff.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("staff.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("staff.repository: failed to scan row")

	// ErrSchedule возвращается, если расписание не удалось сериализовать или прочитать
	ErrSchedule = errors.New("staff.repository: invalid schedule payload")
)
