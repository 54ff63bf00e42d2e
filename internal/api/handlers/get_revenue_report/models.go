package get_revenue_report

import (
	"fmt"
	"net/url"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/reports"
)

// ToPeriod читает период отчета из query параметров dateFrom и dateTo
func ToPeriod(query url.Values) (reports.Period, error) {
	var period reports.Period
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{
		{"dateFrom", &period.From},
		{"dateTo", &period.To},
	} {
		raw := query.Get(p.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return period, fmt.Errorf("%s: %w", p.name, err)
		}
		*p.dst = &t
	}
	return period, nil
}
