package staffdirectory

import "github.com/m04kA/SMC-SalonService/internal/domain"

// Staff модель сотрудника из справочника персонала
type Staff struct {
	ID       string `json:"id"`
	BranchID string `json:"branch_id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// StaffListResponse ответ со списком сотрудников филиала
type StaffListResponse struct {
	Staff []Staff `json:"staff"`
}

// ErrorResponse модель ошибки от справочника
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s Staff) toDomain() domain.StaffRecord {
	return domain.StaffRecord{
		ID:       s.ID,
		BranchID: s.BranchID,
		Name:     s.Name,
		Position: s.Position,
		Phone:    s.Phone,
		Email:    s.Email,
		IsActive: s.IsActive,
	}
}
