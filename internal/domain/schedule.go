package domain

// StaffRecord is a stylist as known to the staff directory.
type StaffRecord struct {
	ID       string `json:"id"`
	BranchID string `json:"branchId"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	IsActive bool   `json:"isActive"`
}

// StylistSchedule is a stylist's capacity for one weekday.
type StylistSchedule struct {
	ID              int64
	StylistID       string
	Weekday         Weekday
	WorkloadMaximum int
	IsActive        bool
}

// StylistAvailability is computed per (branch, date) and never persisted.
type StylistAvailability struct {
	StylistID         string            `json:"stylistId"`
	Name              string            `json:"name"`
	Position          string            `json:"position"`
	RemainingWorkload int               `json:"remainingWorkload"`
	Services          []ResolvedService `json:"services"`
}

// CanTake reports whether units still fit into the remaining workload.
func (a StylistAvailability) CanTake(units int) bool {
	return units <= a.RemainingWorkload
}

// RemainingWorkload is max minus what has been reserved, never negative.
func RemainingWorkload(maximum, reserved int) int {
	if reserved >= maximum {
		return 0
	}
	if reserved < 0 {
		return maximum
	}
	return maximum - reserved
}
