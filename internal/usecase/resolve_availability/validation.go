package resolve_availability

import (
	"strings"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// validateRequest проверяет входные данные запроса
func validateRequest(req *Request) error {
	var issues []domain.FieldIssue

	if strings.TrimSpace(req.BranchID) == "" {
		issues = append(issues, domain.FieldIssue{Field: domain.FieldBranchID, Message: "branch is required"})
	}
	if req.Date.IsZero() {
		issues = append(issues, domain.FieldIssue{Field: domain.FieldAppointmentDate, Message: "date is required"})
	}

	if len(issues) > 0 {
		return &domain.ValidationError{Errors: issues}
	}
	return nil
}
