package get_branch_appointments

import (
	"fmt"
	"net/url"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

// ToServiceRequest собирает запрос к сервису из query параметров
func ToServiceRequest(branchID string, query url.Values) (*models.ListBranchRequest, error) {
	req := &models.ListBranchRequest{BranchID: branchID}

	if status := query.Get("status"); status != "" {
		req.Status = ptr.Ptr(status)
	}
	if stylistID := query.Get("stylistId"); stylistID != "" {
		req.StylistID = ptr.Ptr(stylistID)
	}

	var err error
	if req.DateFrom, err = parseOptionalDate(query.Get("dateFrom")); err != nil {
		return nil, fmt.Errorf("dateFrom: %w", err)
	}
	if req.DateTo, err = parseOptionalDate(query.Get("dateTo")); err != nil {
		return nil, fmt.Errorf("dateTo: %w", err)
	}

	return req, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
