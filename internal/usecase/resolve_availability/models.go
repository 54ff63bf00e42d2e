package resolve_availability

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Request модель запроса доступности стилистов
type Request struct {
	BranchID string    // ID филиала
	Date     time.Time // Календарный день (время игнорируется)
}

// Response доступность стилистов филиала на дату
type Response struct {
	BranchID string
	Date     time.Time
	Weekday  domain.Weekday
	Stylists []domain.StylistAvailability // порядок как в справочнике персонала
}
