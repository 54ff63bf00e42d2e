package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// Field names used in validation results. They match the JSON document keys.
const (
	FieldBranchID        = "branchId"
	FieldAppointmentDate = "appointmentDate"
	FieldAppointmentTime = "appointmentTime"
	FieldStylistID       = "stylistId"
	FieldServiceIDs      = "serviceIds"
	FieldPairs           = "serviceStylistPairs"
	FieldClientID        = "clientId"
	FieldNewClientName   = "newClientName"
	FieldNotes           = "notes"
	FieldStatus          = "status"
	FieldClientInfo      = "clientInfo"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidationResult holds blocking errors and advisory warnings.
type ValidationResult struct {
	IsValid  bool         `json:"isValid"`
	Errors   []FieldIssue `json:"errors"`
	Warnings []FieldIssue `json:"warnings"`
}

func (r *ValidationResult) addError(field, format string, args ...interface{}) {
	r.Errors = append(r.Errors, FieldIssue{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(field, format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, FieldIssue{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks an appointment document. The start must be strictly after now,
// interpreted in now's location. Warnings never affect IsValid.
func Validate(data AppointmentData, now time.Time) ValidationResult {
	r := ValidationResult{Errors: []FieldIssue{}, Warnings: []FieldIssue{}}

	date, dateOK := ParseDate(data.AppointmentDate)
	switch {
	case strings.TrimSpace(data.AppointmentDate) == "":
		r.addError(FieldAppointmentDate, "appointment date is required")
	case !dateOK:
		r.addError(FieldAppointmentDate, "appointment date must be a real date in YYYY-MM-DD format")
	}

	at := types.TimeString(data.AppointmentTime)
	timeOK := at.Validate() == nil
	switch {
	case strings.TrimSpace(data.AppointmentTime) == "":
		r.addError(FieldAppointmentTime, "appointment time is required")
	case !timeOK:
		r.addError(FieldAppointmentTime, "appointment time must be in 24-hour HH:MM format")
	}

	if strings.TrimSpace(data.BranchID) == "" {
		r.addError(FieldBranchID, "branch is required")
	}

	validateServices(&r, data)
	validateClient(&r, data)

	if dateOK && timeOK {
		startsAt, _ := at.On(date, now.Location())
		if !startsAt.After(now) {
			r.addError(FieldAppointmentDate, "appointment date and time must be in the future")
		}
		if at.IsBefore(BusinessOpens) || !at.IsBefore(BusinessCloses) {
			r.addWarning(FieldAppointmentTime, "%s is outside business hours (%s-%s)", at, BusinessOpens, BusinessCloses)
		}
	}

	warnLongNotes(&r, data.Notes)

	r.IsValid = len(r.Errors) == 0
	return r
}

// Prepare sanitizes data and validates the sanitized copy. Notes that Sanitize
// truncated are still reported as a warning.
func Prepare(data AppointmentData, now time.Time) (AppointmentData, ValidationResult) {
	clean := Sanitize(data)
	r := Validate(clean, now)
	warnLongNotes(&r, strings.TrimSpace(data.Notes))
	return clean, r
}

func warnLongNotes(r *ValidationResult, notes string) {
	for _, w := range r.Warnings {
		if w.Field == FieldNotes {
			return
		}
	}
	if n := utf8.RuneCountInString(notes); n > MaxNotesLength {
		r.addWarning(FieldNotes, "notes are %d characters and will be truncated to %d", n, MaxNotesLength)
	}
}

func validateServices(r *ValidationResult, data AppointmentData) {
	switch s := data.Shape().(type) {
	case PairedShape:
		for i, p := range s.Pairs {
			if strings.TrimSpace(p.ServiceID) == "" {
				r.addError(fmt.Sprintf("%s[%d].serviceId", FieldPairs, i), "service is required")
			}
			if strings.TrimSpace(p.StylistID) == "" {
				r.addError(fmt.Sprintf("%s[%d].stylistId", FieldPairs, i), "stylist is required")
			}
		}
	case LegacyShape:
		if len(s.ServiceIDs) == 0 {
			r.addError(FieldPairs, "at least one service is required")
			return
		}
		for i, id := range s.ServiceIDs {
			if strings.TrimSpace(id) == "" {
				r.addError(fmt.Sprintf("%s[%d]", FieldServiceIDs, i), "service id must not be empty")
			}
		}
		if strings.TrimSpace(s.StylistID) == "" {
			r.addError(FieldStylistID, "stylist is required")
		}
	}
}

func validateClient(r *ValidationResult, data AppointmentData) {
	name := firstNonEmpty(data.NewClientName, data.ClientInfo.Name, data.ClientName)
	if data.IsNewClient {
		if name == "" {
			r.addError(FieldNewClientName, "name is required for a new client")
		}
		return
	}
	if strings.TrimSpace(data.ClientID) == "" {
		r.addError(FieldClientID, "client id is required for an existing client")
	}
}

// ParseDate parses a strict YYYY-MM-DD calendar date at midnight UTC.
func ParseDate(s string) (time.Time, bool) {
	if !datePattern.MatchString(s) {
		return time.Time{}, false
	}
	d, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ValidateSchedule checks a new date and time the way Validate does, for reschedules.
func ValidateSchedule(date, at string, now time.Time) ValidationResult {
	r := ValidationResult{Errors: []FieldIssue{}, Warnings: []FieldIssue{}}
	d, dateOK := ParseDate(date)
	if !dateOK {
		r.addError(FieldAppointmentDate, "appointment date must be a real date in YYYY-MM-DD format")
	}
	t := types.TimeString(at)
	timeOK := t.Validate() == nil
	if !timeOK {
		r.addError(FieldAppointmentTime, "appointment time must be in 24-hour HH:MM format")
	}
	if dateOK && timeOK {
		startsAt, _ := t.On(d, now.Location())
		if !startsAt.After(now) {
			r.addError(FieldAppointmentDate, "appointment date and time must be in the future")
		}
		if t.IsBefore(BusinessOpens) || !t.IsBefore(BusinessCloses) {
			r.addWarning(FieldAppointmentTime, "%s is outside business hours (%s-%s)", t, BusinessOpens, BusinessCloses)
		}
	}
	r.IsValid = len(r.Errors) == 0
	return r
}

// Sanitize trims and caps free text, normalises email and drops empty service ids.
// Pair order is preserved.
func Sanitize(data AppointmentData) AppointmentData {
	out := data
	out.BranchID = strings.TrimSpace(data.BranchID)
	out.AppointmentDate = strings.TrimSpace(data.AppointmentDate)
	out.AppointmentTime = strings.TrimSpace(data.AppointmentTime)
	out.ClientID = strings.TrimSpace(data.ClientID)
	out.StylistID = strings.TrimSpace(data.StylistID)
	out.NewClientName = clip(data.NewClientName, MaxNameLength)
	out.ClientName = clip(data.ClientName, MaxNameLength)
	out.ClientInfo = sanitizeClientInfo(data.ClientInfo)
	out.Notes = clip(data.Notes, MaxNotesLength)

	if data.ServiceIDs != nil {
		out.ServiceIDs = make([]string, 0, len(data.ServiceIDs))
		for _, id := range data.ServiceIDs {
			if id = strings.TrimSpace(id); id != "" {
				out.ServiceIDs = append(out.ServiceIDs, id)
			}
		}
	}

	if data.ServiceStylistPairs != nil {
		out.ServiceStylistPairs = make([]ServiceStylistPair, len(data.ServiceStylistPairs))
		for i, p := range data.ServiceStylistPairs {
			p.ServiceID = strings.TrimSpace(p.ServiceID)
			p.StylistID = strings.TrimSpace(p.StylistID)
			out.ServiceStylistPairs[i] = p
		}
	}
	return out
}

// SanitizeClientInfoPatch applies the ClientInfo rules to the fields present in p.
func SanitizeClientInfoPatch(p ClientInfoPatch) ClientInfoPatch {
	out := ClientInfoPatch{}
	if p.Name != nil {
		v := clip(*p.Name, MaxNameLength)
		out.Name = &v
	}
	if p.Phone != nil {
		v := strings.TrimSpace(*p.Phone)
		out.Phone = &v
	}
	if p.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*p.Email))
		out.Email = &v
	}
	if p.Address != nil {
		v := clip(*p.Address, MaxAddressLength)
		out.Address = &v
	}
	return out
}

func sanitizeClientInfo(c ClientInfo) ClientInfo {
	return ClientInfo{
		Name:    clip(c.Name, MaxNameLength),
		Phone:   strings.TrimSpace(c.Phone),
		Email:   strings.ToLower(strings.TrimSpace(c.Email)),
		Address: clip(c.Address, MaxAddressLength),
	}
}

// clip trims s and cuts it to at most max runes.
func clip(s string, max int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max]))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
