package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// ClientInfo is the contact card stored on an appointment.
type ClientInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// ClientInfoPatch is a partial update; nil fields are left untouched.
type ClientInfoPatch struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ClientInfoPatch) IsEmpty() bool {
	return p.Name == nil && p.Phone == nil && p.Email == nil && p.Address == nil
}

// ServiceStylistPair binds one selected service to the stylist performing it.
// Price and WorkloadUnits are captured at creation; legacy rows carry neither.
type ServiceStylistPair struct {
	ServiceID     string              `json:"serviceId"`
	StylistID     string              `json:"stylistId"`
	Price         decimal.NullDecimal `json:"price"`
	WorkloadUnits int                 `json:"workloadUnits,omitempty"`
}

// HistoryEntry is an immutable audit record.
type HistoryEntry struct {
	Action    string    `json:"action"`
	By        string    `json:"by"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

// Appointment is the durable booking entity. Status only changes through Transition.
type Appointment struct {
	ID              string
	BranchID        string
	AppointmentDate time.Time // calendar day, midnight UTC
	AppointmentTime types.TimeString

	ClientID      string
	IsNewClient   bool
	NewClientName string
	ClientName    string // legacy documents only
	ClientInfo    ClientInfo

	ServiceStylistPairs []ServiceStylistPair
	Status              AppointmentStatus
	Notes               string

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
	History   []HistoryEntry
}

// NewAppointment validates data against now and builds a scheduled appointment with
// a "created" history entry. data is expected to be sanitized already.
func NewAppointment(id string, data AppointmentData, createdBy string, now time.Time) (*Appointment, error) {
	result := Validate(data, now)
	if !result.IsValid {
		return nil, &ValidationError{Errors: result.Errors}
	}

	date, err := time.Parse(DateFormat, data.AppointmentDate)
	if err != nil {
		return nil, &ValidationError{Errors: []FieldIssue{{Field: FieldAppointmentDate, Message: err.Error()}}}
	}

	a := &Appointment{
		ID:                  id,
		BranchID:            data.BranchID,
		AppointmentDate:     date,
		AppointmentTime:     types.TimeString(data.AppointmentTime),
		ClientID:            data.ClientID,
		IsNewClient:         data.IsNewClient,
		NewClientName:       data.NewClientName,
		ClientName:          data.ClientName,
		ClientInfo:          data.ClientInfo,
		ServiceStylistPairs: NormalizePairs(data.Shape()),
		Status:              StatusScheduled,
		Notes:               data.Notes,
		CreatedBy:           createdBy,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	a.appendHistory(ActionCreated, createdBy, now, "")
	return a, nil
}

// Transition moves the appointment to status to and records it in history.
func (a *Appointment) Transition(to AppointmentStatus, by, notes string, now time.Time) error {
	if !IsLegalTransition(a.Status, to) {
		return &IllegalTransitionError{From: a.Status, To: to}
	}
	a.Status = to
	a.UpdatedAt = now
	a.appendHistory(to.HistoryAction(), by, now, notes)
	return nil
}

// UpdateClientInfo merges patch into ClientInfo. Status is untouched.
func (a *Appointment) UpdateClientInfo(patch ClientInfoPatch, by string, now time.Time) {
	if patch.Name != nil {
		a.ClientInfo.Name = *patch.Name
	}
	if patch.Phone != nil {
		a.ClientInfo.Phone = *patch.Phone
	}
	if patch.Email != nil {
		a.ClientInfo.Email = *patch.Email
	}
	if patch.Address != nil {
		a.ClientInfo.Address = *patch.Address
	}
	a.UpdatedAt = now
	a.appendHistory(ActionClientInfoUpdated, by, now, "")
}

// CanBeRescheduled is true before the service has started.
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

// Reschedule moves the appointment to a new day and time. Capacity and date checks are
// the caller's job; this only enforces the status rule and records history.
func (a *Appointment) Reschedule(date time.Time, at types.TimeString, by, notes string, now time.Time) error {
	if !a.CanBeRescheduled() {
		return fmt.Errorf("%w: %s", ErrCannotReschedule, a.Status)
	}
	if notes == "" {
		notes = fmt.Sprintf("moved from %s %s to %s %s",
			a.AppointmentDate.Format(DateFormat), a.AppointmentTime, date.Format(DateFormat), at)
	}
	y, m, d := date.Date()
	a.AppointmentDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	a.AppointmentTime = at
	a.UpdatedAt = now
	a.appendHistory(ActionRescheduled, by, now, notes)
	return nil
}

// LastHistoryEntry returns the most recent entry.
func (a *Appointment) LastHistoryEntry() (HistoryEntry, bool) {
	if len(a.History) == 0 {
		return HistoryEntry{}, false
	}
	return a.History[len(a.History)-1], true
}

// StylistIDs lists the distinct stylists in pair order.
func (a *Appointment) StylistIDs() []string {
	seen := make(map[string]struct{}, len(a.ServiceStylistPairs))
	ids := make([]string, 0, len(a.ServiceStylistPairs))
	for _, p := range a.ServiceStylistPairs {
		if _, ok := seen[p.StylistID]; ok {
			continue
		}
		seen[p.StylistID] = struct{}{}
		ids = append(ids, p.StylistID)
	}
	return ids
}

// ServiceIDs lists the services in pair order.
func (a *Appointment) ServiceIDs() []string {
	ids := make([]string, 0, len(a.ServiceStylistPairs))
	for _, p := range a.ServiceStylistPairs {
		ids = append(ids, p.ServiceID)
	}
	return ids
}

// WorkloadByStylist sums captured workload units per stylist.
func (a *Appointment) WorkloadByStylist() map[string]int {
	units := make(map[string]int)
	for _, p := range a.ServiceStylistPairs {
		units[p.StylistID] += p.WorkloadUnits
	}
	return units
}

// Total sums the captured pair prices. Pairs without a captured price count as zero.
func (a *Appointment) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range a.ServiceStylistPairs {
		if p.Price.Valid {
			total = total.Add(p.Price.Decimal)
		}
	}
	return total
}

// AllowedTransitions lists the statuses this appointment can move to next.
func (a *Appointment) AllowedTransitions() []AppointmentStatus {
	return NextStatuses(a.Status)
}

func (a *Appointment) appendHistory(action, by string, at time.Time, notes string) {
	a.History = append(a.History, HistoryEntry{
		Action:    action,
		By:        by,
		Timestamp: at,
		Notes:     notes,
	})
}

// AppointmentFilter narrows QueryAppointments. Nil fields do not filter.
type AppointmentFilter struct {
	BranchID  *string
	ClientID  *string
	StylistID *string
	Status    *AppointmentStatus
	DateFrom  *time.Time
	DateTo    *time.Time
}

// AppointmentPatch is a partial update of the mutable appointment columns.
type AppointmentPatch struct {
	Status          *AppointmentStatus
	ClientInfo      *ClientInfo
	AppointmentDate *time.Time
	AppointmentTime *types.TimeString
	UpdatedAt       time.Time
}
