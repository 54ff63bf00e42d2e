package reports

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period диапазон дат отчета, границы включительно. nil означает без ограничения
type Period struct {
	From *time.Time
	To   *time.Time
}

// RevenueReport выручка филиала за период
type RevenueReport struct {
	BranchID         string          `json:"branchId"`
	DateFrom         *string         `json:"dateFrom,omitempty"`
	DateTo           *string         `json:"dateTo,omitempty"`
	Currency         string          `json:"currency"`
	CompletedCount   int             `json:"completedCount"`
	CompletedRevenue decimal.Decimal `json:"completedRevenue"`
	ProjectedCount   int             `json:"projectedCount"`
	ProjectedRevenue decimal.Decimal `json:"projectedRevenue"`
	CancelledCount   int             `json:"cancelledCount"`
}

// StylistRollup показатели одного стилиста. Выручка считается по парам выполненных записей
type StylistRollup struct {
	StylistID         string          `json:"stylistId"`
	Appointments      int             `json:"appointments"`
	ServicesPerformed int             `json:"servicesPerformed"`
	Revenue           decimal.Decimal `json:"revenue"`
	UpcomingServices  int             `json:"upcomingServices"`
}

// StylistReport показатели стилистов филиала за период
type StylistReport struct {
	BranchID string          `json:"branchId"`
	DateFrom *string         `json:"dateFrom,omitempty"`
	DateTo   *string         `json:"dateTo,omitempty"`
	Currency string          `json:"currency"`
	Stylists []StylistRollup `json:"stylists"`
}
