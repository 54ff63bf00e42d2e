package domain

import (
	"strings"
	"time"
)

// ClientDisplayName picks clientInfo.name, then the legacy clientName, then newClientName.
func (a *Appointment) ClientDisplayName() string {
	for _, name := range []string{a.ClientInfo.Name, a.ClientName, a.NewClientName} {
		if n := strings.TrimSpace(name); n != "" {
			return n
		}
	}
	return UnknownClientName
}

// FormattedDate renders the day, e.g. "Friday, October 17, 2025".
func (a *Appointment) FormattedDate() string {
	if a.AppointmentDate.IsZero() {
		return ""
	}
	return a.AppointmentDate.Format(DisplayDateFormat)
}

// FormattedTime renders the start on a 12-hour clock, e.g. "2:30 PM".
func (a *Appointment) FormattedTime() string {
	return a.AppointmentTime.Format12h()
}

// StartsAt composes date and time in loc.
func (a *Appointment) StartsAt(loc *time.Location) (time.Time, error) {
	return a.AppointmentTime.On(a.AppointmentDate, loc)
}

// IsToday compares the appointment day with now's calendar day in now's location.
func (a *Appointment) IsToday(now time.Time) bool {
	y1, m1, d1 := a.AppointmentDate.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsPastAppointment reports whether the start is before now. Unparseable times count as past.
func (a *Appointment) IsPastAppointment(now time.Time) bool {
	startsAt, err := a.StartsAt(now.Location())
	if err != nil {
		return true
	}
	return startsAt.Before(now)
}
