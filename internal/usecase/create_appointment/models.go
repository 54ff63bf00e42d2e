package create_appointment

import (
	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Request модель запроса на создание записи
type Request struct {
	Data      domain.AppointmentData // Данные записи в парном или старом формате
	CreatedBy string                 // ID пользователя из X-User-ID
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
	Warnings    []domain.FieldIssue // Предупреждения валидации, запись не блокируют
}
