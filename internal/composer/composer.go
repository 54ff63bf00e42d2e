// Package composer accumulates (stylist, service) selections against one availability
// snapshot and turns them into appointment data.
package composer

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// ErrUnknownStylist is returned when a selection names a stylist missing from the availability set.
var ErrUnknownStylist = errors.New("composer: stylist is not available on this date")

// ErrUnknownService is returned when the stylist cannot perform the selected service.
var ErrUnknownService = errors.New("composer: stylist does not offer this service")

// Selection is one chosen service and the stylist who performs it.
type Selection struct {
	StylistID   string
	StylistName string
	Service     domain.ResolvedService
}

// Input is the client part of the booking, everything except the selections.
type Input struct {
	AppointmentTime string
	ClientID        string
	IsNewClient     bool
	NewClientName   string
	ClientInfo      domain.ClientInfo
	Notes           string
}

// Composer is not safe for concurrent use.
type Composer struct {
	branchID   string
	date       time.Time
	byName     map[string]domain.StylistAvailability
	selections []Selection
}

// New starts an empty composition for branchID on date.
func New(branchID string, date time.Time, availability []domain.StylistAvailability) *Composer {
	byName := make(map[string]domain.StylistAvailability, len(availability))
	for _, a := range availability {
		if _, dup := byName[a.Name]; dup {
			continue
		}
		byName[a.Name] = a
	}
	return &Composer{
		branchID: branchID,
		date:     date,
		byName:   byName,
	}
}

// Toggle adds the (stylistName, service) selection, or removes it when already present.
// It returns true when the pair is selected after the call.
func (c *Composer) Toggle(stylistName string, service domain.ResolvedService) (bool, error) {
	stylist, ok := c.byName[stylistName]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownStylist, stylistName)
	}

	for i, s := range c.selections {
		if s.StylistName == stylistName && s.Service.ServiceID == service.ServiceID {
			c.selections = append(c.selections[:i:i], c.selections[i+1:]...)
			return false, nil
		}
	}

	c.selections = append(c.selections, Selection{
		StylistID:   stylist.StylistID,
		StylistName: stylistName,
		Service:     service,
	})
	return true, nil
}

// ToggleByID is Toggle with the service looked up among the stylist's available services.
func (c *Composer) ToggleByID(stylistName, serviceID string) (bool, error) {
	stylist, ok := c.byName[stylistName]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownStylist, stylistName)
	}
	for _, svc := range stylist.Services {
		if svc.ServiceID == serviceID {
			return c.Toggle(stylistName, svc)
		}
	}
	return false, fmt.Errorf("%w: %s by %q", ErrUnknownService, serviceID, stylistName)
}

// IsSelected reports whether the pair is currently selected.
func (c *Composer) IsSelected(stylistName, serviceID string) bool {
	for _, s := range c.selections {
		if s.StylistName == stylistName && s.Service.ServiceID == serviceID {
			return true
		}
	}
	return false
}

// Selections returns a copy of the selections in the order they were made.
func (c *Composer) Selections() []Selection {
	out := make([]Selection, len(c.selections))
	copy(out, c.selections)
	return out
}

// Total sums the prices of the selected services.
func (c *Composer) Total() decimal.Decimal {
	total := decimal.Zero
	for _, s := range c.selections {
		total = total.Add(s.Service.Price)
	}
	return total
}

// WorkloadByStylist sums selected workload units per stylist ID.
func (c *Composer) WorkloadByStylist() map[string]int {
	units := make(map[string]int)
	for _, s := range c.selections {
		units[s.StylistID] += s.Service.WorkloadUnits
	}
	return units
}

// Compose builds paired appointment data in selection order.
func (c *Composer) Compose(in Input) (domain.AppointmentData, error) {
	if len(c.selections) == 0 {
		return domain.AppointmentData{}, domain.ErrIncompleteSelection
	}

	pairs := make([]domain.ServiceStylistPair, 0, len(c.selections))
	for _, s := range c.selections {
		pairs = append(pairs, domain.ServiceStylistPair{
			ServiceID:     s.Service.ServiceID,
			StylistID:     s.StylistID,
			Price:         decimal.NewNullDecimal(s.Service.Price),
			WorkloadUnits: s.Service.WorkloadUnits,
		})
	}

	return domain.AppointmentData{
		BranchID:            c.branchID,
		AppointmentDate:     c.date.Format(domain.DateFormat),
		AppointmentTime:     in.AppointmentTime,
		ClientID:            in.ClientID,
		IsNewClient:         in.IsNewClient,
		NewClientName:       in.NewClientName,
		ClientInfo:          in.ClientInfo,
		ServiceStylistPairs: pairs,
		Notes:               in.Notes,
	}, nil
}
