package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

// Request модели

// TransitionRequest запрос на смену статуса записи
type TransitionRequest struct {
	Status      string `json:"status"`
	Notes       string `json:"notes"`
	PerformedBy string `json:"-"`
}

// UpdateClientInfoRequest запрос на частичное обновление контактов клиента
type UpdateClientInfoRequest struct {
	ClientInfo  domain.ClientInfoPatch `json:"clientInfo"`
	PerformedBy string                 `json:"-"`
}

// RescheduleRequest запрос на перенос записи
type RescheduleRequest struct {
	AppointmentDate string `json:"appointmentDate"` // "2025-10-18"
	AppointmentTime string `json:"appointmentTime"` // "11:00"
	Notes           string `json:"notes"`
	PerformedBy     string `json:"-"`
}

// ListBranchRequest запрос на получение записей филиала
type ListBranchRequest struct {
	BranchID  string
	Status    *string    // Фильтр по статусу (опционально)
	StylistID *string    // Фильтр по стилисту, учитывает пары и legacy записи (опционально)
	DateFrom  *time.Time // Начало периода включительно (опционально)
	DateTo    *time.Time // Конец периода включительно (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBranchRequest) ToDomainFilter() (domain.AppointmentFilter, error) {
	filter := domain.AppointmentFilter{
		BranchID:  ptr.Ptr(r.BranchID),
		StylistID: r.StylistID,
		DateFrom:  r.DateFrom,
		DateTo:    r.DateTo,
	}

	if r.Status != nil {
		status, err := domain.ParseStatus(*r.Status)
		if err != nil {
			return filter, &domain.ValidationError{Errors: []domain.FieldIssue{{Field: domain.FieldStatus, Message: err.Error()}}}
		}
		filter.Status = &status
	}

	if r.DateFrom != nil && r.DateTo != nil && r.DateTo.Before(*r.DateFrom) {
		return filter, &domain.ValidationError{Errors: []domain.FieldIssue{{
			Field:   "dateTo",
			Message: fmt.Sprintf("dateTo %s is before dateFrom %s", r.DateTo.Format(domain.DateFormat), r.DateFrom.Format(domain.DateFormat)),
		}}}
	}

	return filter, nil
}

// Response модели

// AppointmentResponse запись вместе с производными представлениями
type AppointmentResponse struct {
	ID              string `json:"id"`
	BranchID        string `json:"branchId"`
	AppointmentDate string `json:"appointmentDate"` // "2025-10-17"
	AppointmentTime string `json:"appointmentTime"` // "14:30"
	FormattedDate   string `json:"formattedDate"`   // "Friday, October 17, 2025"
	FormattedTime   string `json:"formattedTime"`   // "2:30 PM"
	IsToday         bool   `json:"isToday"`
	IsPast          bool   `json:"isPast"`

	ClientID      *string           `json:"clientId,omitempty"`
	IsNewClient   bool              `json:"isNewClient"`
	NewClientName string            `json:"newClientName,omitempty"`
	ClientName    string            `json:"clientName"`
	ClientInfo    domain.ClientInfo `json:"clientInfo"`

	ServiceStylistPairs []domain.ServiceStylistPair `json:"serviceStylistPairs"`
	Total               decimal.Decimal             `json:"total"`
	Currency            string                      `json:"currency"`

	Status             string   `json:"status"`
	AllowedTransitions []string `json:"allowedTransitions"`
	Notes              string   `json:"notes,omitempty"`

	CreatedBy string                `json:"createdBy"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
	History   []domain.HistoryEntry `json:"history"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO. now нужен для isToday и isPast
func FromDomainAppointment(a *domain.Appointment, now time.Time) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                  a.ID,
		BranchID:            a.BranchID,
		AppointmentDate:     a.AppointmentDate.Format(domain.DateFormat),
		AppointmentTime:     a.AppointmentTime.String(),
		FormattedDate:       a.FormattedDate(),
		FormattedTime:       a.FormattedTime(),
		IsToday:             a.IsToday(now),
		IsPast:              a.IsPastAppointment(now),
		IsNewClient:         a.IsNewClient,
		NewClientName:       a.NewClientName,
		ClientName:          a.ClientDisplayName(),
		ClientInfo:          a.ClientInfo,
		ServiceStylistPairs: a.ServiceStylistPairs,
		Total:               a.Total(),
		Currency:            domain.CurrencyCode,
		Status:              a.Status.String(),
		AllowedTransitions:  statusStrings(a.AllowedTransitions()),
		Notes:               a.Notes,
		CreatedBy:           a.CreatedBy,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
		History:             a.History,
	}

	if a.ClientID != "" {
		resp.ClientID = ptr.Ptr(a.ClientID)
	}
	if resp.ServiceStylistPairs == nil {
		resp.ServiceStylistPairs = []domain.ServiceStylistPair{}
	}
	if resp.History == nil {
		resp.History = []domain.HistoryEntry{}
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment, now time.Time) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}
	for _, a := range appointments {
		if item := FromDomainAppointment(a, now); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}
	return resp
}

func statusStrings(statuses []domain.AppointmentStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, s.String())
	}
	return out
}
