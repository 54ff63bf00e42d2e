package create_appointment

import (
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// pairField имя поля пары для ошибок валидации
func pairField(i int, name string) string {
	return fmt.Sprintf("%s[%d].%s", domain.FieldPairs, i, name)
}

// checkStylist проверяет, что стилист активен и работает в филиале записи
func checkStylist(staff *domain.StaffRecord, branchID string) string {
	if !staff.IsActive {
		return fmt.Sprintf("stylist %s is not active", staff.ID)
	}
	if staff.BranchID != "" && staff.BranchID != branchID {
		return fmt.Sprintf("stylist %s does not work at branch %s", staff.ID, branchID)
	}
	return ""
}
