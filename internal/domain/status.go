package domain

import (
	"fmt"
	"strings"
)

// AppointmentStatus is a state of the appointment lifecycle.
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

// ActiveStatuses hold workload on a stylist's day.
var ActiveStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusInProgress,
}

var legalTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled:  {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// IsLegalTransition reports whether from may move to to. Unknown statuses are never legal.
func IsLegalTransition(from, to AppointmentStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from s in one step.
func NextStatuses(s AppointmentStatus) []AppointmentStatus {
	next := legalTransitions[s]
	out := make([]AppointmentStatus, len(next))
	copy(out, next)
	return out
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (AppointmentStatus, error) {
	s := AppointmentStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("unknown appointment status %q", raw)
	}
	return s, nil
}

func (s AppointmentStatus) IsValid() bool {
	_, ok := legalTransitions[s]
	return ok
}

// IsTerminal reports whether no further transition is possible.
func (s AppointmentStatus) IsTerminal() bool {
	return s.IsValid() && len(legalTransitions[s]) == 0
}

// IsActive reports whether the appointment still holds stylist workload.
func (s AppointmentStatus) IsActive() bool {
	return s == StatusScheduled || s == StatusConfirmed || s == StatusInProgress
}

// HistoryAction is the history action recorded when entering s.
func (s AppointmentStatus) HistoryAction() string {
	return historyActionPrefix + string(s)
}

func (s AppointmentStatus) String() string {
	return string(s)
}
