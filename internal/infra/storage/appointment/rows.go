package appointment

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

var appointmentColumns = []string{
	"id",
	"branch_id",
	"appointment_date",
	"appointment_time",
	"client_id",
	"is_new_client",
	"new_client_name",
	"client_name",
	"client_info",
	"service_stylist_pairs",
	"service_ids",
	"stylist_id",
	"status",
	"notes",
	"created_by",
	"created_at",
	"updated_at",
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// appointmentRow строка таблицы appointments в сыром виде.
// Старые записи хранят услуги в service_ids + stylist_id вместо пар
type appointmentRow struct {
	id              string
	branchID        string
	date            time.Time
	at              types.TimeString
	clientID        sql.NullString
	isNewClient     bool
	newClientName   string
	clientName      string
	clientInfo      []byte
	pairs           []byte
	legacyServices  []byte
	legacyStylistID sql.NullString
	status          string
	notes           string
	createdBy       string
	createdAt       sql.NullTime
	updatedAt       sql.NullTime
}

func scanAppointment(s scanner) (*appointmentRow, error) {
	var row appointmentRow
	err := s.Scan(
		&row.id,
		&row.branchID,
		&row.date,
		&row.at,
		&row.clientID,
		&row.isNewClient,
		&row.newClientName,
		&row.clientName,
		&row.clientInfo,
		&row.pairs,
		&row.legacyServices,
		&row.legacyStylistID,
		&row.status,
		&row.notes,
		&row.createdBy,
		&row.createdAt,
		&row.updatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (row *appointmentRow) toDomain() (*domain.Appointment, error) {
	y, m, d := row.date.Date()

	a := &domain.Appointment{
		ID:              row.id,
		BranchID:        row.branchID,
		AppointmentDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		AppointmentTime: row.at,
		ClientID:        row.clientID.String,
		IsNewClient:     row.isNewClient,
		NewClientName:   row.newClientName,
		ClientName:      row.clientName,
		Status:          domain.AppointmentStatus(row.status),
		Notes:           row.notes,
		CreatedBy:       row.createdBy,
		CreatedAt:       row.createdAt.Time,
		UpdatedAt:       row.updatedAt.Time,
		History:         make([]domain.HistoryEntry, 0),
	}

	if len(row.clientInfo) > 0 {
		if err := json.Unmarshal(row.clientInfo, &a.ClientInfo); err != nil {
			return nil, fmt.Errorf("client_info of %s: %w", row.id, err)
		}
	}

	var pairs []domain.ServiceStylistPair
	if len(row.pairs) > 0 {
		if err := json.Unmarshal(row.pairs, &pairs); err != nil {
			return nil, fmt.Errorf("service_stylist_pairs of %s: %w", row.id, err)
		}
	}

	if len(pairs) == 0 && len(row.legacyServices) > 0 {
		var serviceIDs []string
		if err := json.Unmarshal(row.legacyServices, &serviceIDs); err != nil {
			return nil, fmt.Errorf("service_ids of %s: %w", row.id, err)
		}
		pairs = domain.NormalizePairs(domain.LegacyShape{
			ServiceIDs: serviceIDs,
			StylistID:  row.legacyStylistID.String,
		})
	}

	if pairs == nil {
		pairs = make([]domain.ServiceStylistPair, 0)
	}
	a.ServiceStylistPairs = pairs

	return a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
