package get_stylist_report

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/service/reports"
)

type ReportService interface {
	Stylists(ctx context.Context, branchID string, period reports.Period) (*reports.StylistReport, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
