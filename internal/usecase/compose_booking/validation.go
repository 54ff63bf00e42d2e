package compose_booking

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
	if _, ok := domain.ParseDate(strings.TrimSpace(req.AppointmentDate)); !ok {
		issues = append(issues, domain.FieldIssue{Field: domain.FieldAppointmentDate, Message: "appointment date must be a real date in YYYY-MM-DD format"})
	}

	if len(issues) > 0 {
		return &domain.ValidationError{Errors: issues}
	}
	return nil
}
