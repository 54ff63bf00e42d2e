package workload

import (
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

var (
	// ErrCapacityExceeded возвращается, когда у стилиста не хватает дневного лимита нагрузки
	ErrCapacityExceeded = fmt.Errorf("workload: %w", domain.ErrCapacityExceeded)
)
