package compose_booking

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonService/internal/composer"
	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Selection выбранная услуга у стилиста. Стилист указывается по имени, как в интерфейсе записи
type Selection struct {
	StylistName string `json:"stylistName"`
	ServiceID   string `json:"serviceId"`
}

// Request запрос на запись через выбор услуг у стилистов
type Request struct {
	BranchID        string
	AppointmentDate string // "2025-10-17"
	Selections      []Selection
	Client          composer.Input
	CreatedBy       string
}

// Response созданная запись и сумма выбранных услуг
type Response struct {
	Appointment *domain.Appointment
	Total       decimal.Decimal
	Warnings    []domain.FieldIssue
}
