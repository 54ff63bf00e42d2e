package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConfirmationNotice is handed to notifiers after an appointment was confirmed.
type ConfirmationNotice struct {
	AppointmentID string               `json:"appointmentId"`
	BranchID      string               `json:"branchId"`
	Date          string               `json:"appointmentDate"`
	Time          string               `json:"appointmentTime"`
	FormattedDate string               `json:"formattedDate"`
	FormattedTime string               `json:"formattedTime"`
	ClientID      string               `json:"clientId,omitempty"`
	ClientName    string               `json:"clientName"`
	Client        ClientInfo           `json:"client"`
	Stylists      []StaffRecord        `json:"stylists"`
	Services      []ServiceStylistPair `json:"services"`
	Total         decimal.Decimal      `json:"total"`
	Currency      string               `json:"currency"`
	ConfirmedBy   string               `json:"confirmedBy"`
	ConfirmedAt   time.Time            `json:"confirmedAt"`
}

// NewConfirmationNotice snapshots a. stylists holds the contacts that could be resolved.
func NewConfirmationNotice(a *Appointment, stylists []StaffRecord, by string, at time.Time) ConfirmationNotice {
	services := make([]ServiceStylistPair, len(a.ServiceStylistPairs))
	copy(services, a.ServiceStylistPairs)
	if stylists == nil {
		stylists = []StaffRecord{}
	}

	return ConfirmationNotice{
		AppointmentID: a.ID,
		BranchID:      a.BranchID,
		Date:          a.AppointmentDate.Format(DateFormat),
		Time:          a.AppointmentTime.String(),
		FormattedDate: a.FormattedDate(),
		FormattedTime: a.FormattedTime(),
		ClientID:      a.ClientID,
		ClientName:    a.ClientDisplayName(),
		Client:        a.ClientInfo,
		Stylists:      stylists,
		Services:      services,
		Total:         a.Total(),
		Currency:      CurrencyCode,
		ConfirmedBy:   by,
		ConfirmedAt:   at,
	}
}
