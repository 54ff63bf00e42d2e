package get_availability

import (
	"github.com/m04kA/SMC-SalonService/internal/domain"
	resolveAvailability "github.com/m04kA/SMC-SalonService/internal/usecase/resolve_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	BranchID string                       `json:"branchId"`
	Date     string                       `json:"date"`
	Weekday  string                       `json:"weekday"`
	Stylists []domain.StylistAvailability `json:"stylists"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *resolveAvailability.Response) *AvailabilityResponse {
	stylists := resp.Stylists
	if stylists == nil {
		stylists = []domain.StylistAvailability{}
	}
	return &AvailabilityResponse{
		BranchID: resp.BranchID,
		Date:     resp.Date.Format(domain.DateFormat),
		Weekday:  resp.Weekday.String(),
		Stylists: stylists,
	}
}
