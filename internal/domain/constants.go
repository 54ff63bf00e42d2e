package domain

import "github.com/m04kA/SMC-SalonService/pkg/types"

// Free-text limits applied by Sanitize.
const (
	MaxNotesLength   = 500
	MaxNameLength    = 100
	MaxAddressLength = 200
)

// Business window used for off-hours warnings. Closing time itself is outside the window.
const (
	BusinessOpens  types.TimeString = "09:00"
	BusinessCloses types.TimeString = "21:00"
)

// Time format constants
const (
	TimeFormat          = "15:04"      // HH:MM
	DateFormat          = "2006-01-02" // YYYY-MM-DD
	DisplayDateFormat   = "Monday, January 2, 2006"
	UnknownClientName   = "Unknown Client"
	CurrencyCode        = "PHP"
	historyActionPrefix = "status_changed_to_"
)

// History actions other than status changes.
const (
	ActionCreated           = "created"
	ActionClientInfoUpdated = "client_info_updated"
	ActionRescheduled       = "rescheduled"
)
