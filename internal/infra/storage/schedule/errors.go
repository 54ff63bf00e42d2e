package schedule

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

var (
	// ErrScheduleNotFound возвращается, когда у стилиста нет активного расписания на день недели
	ErrScheduleNotFound = fmt.Errorf("schedule.repository: stylist schedule %w", domain.ErrNotFound)

	// ErrCapacityExceeded возвращается, когда резервирование превысит дневной лимит нагрузки
	ErrCapacityExceeded = fmt.Errorf("schedule.repository: %w", domain.ErrCapacityExceeded)

	// ErrInvalidUnits возвращается при отрицательном количестве единиц нагрузки
	ErrInvalidUnits = errors.New("schedule.repository: workload units must not be negative")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = fmt.Errorf("schedule.repository: failed to execute query: %w", domain.ErrStoreUnavailable)
)
