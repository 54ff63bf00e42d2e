package catalog

import (
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

var (
	// ErrBranchNotFound возвращается, когда филиал не найден или закрыт
	ErrBranchNotFound = fmt.Errorf("catalog: branch %w", domain.ErrNotFound)
)
