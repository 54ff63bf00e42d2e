package domain

// AppointmentData is an appointment document as received from callers or read from old
// records. It may use either the paired shape (ServiceStylistPairs) or the legacy shape
// (flat ServiceIDs served by a single StylistID).
type AppointmentData struct {
	BranchID            string               `json:"branchId"`
	AppointmentDate     string               `json:"appointmentDate"`
	AppointmentTime     string               `json:"appointmentTime"`
	ClientID            string               `json:"clientId,omitempty"`
	IsNewClient         bool                 `json:"isNewClient,omitempty"`
	NewClientName       string               `json:"newClientName,omitempty"`
	ClientName          string               `json:"clientName,omitempty"`
	ClientInfo          ClientInfo           `json:"clientInfo"`
	ServiceStylistPairs []ServiceStylistPair `json:"serviceStylistPairs,omitempty"`
	ServiceIDs          []string             `json:"serviceIds,omitempty"`
	StylistID           string               `json:"stylistId,omitempty"`
	Notes               string               `json:"notes,omitempty"`
}

// AppointmentShape is one of LegacyShape or PairedShape.
type AppointmentShape interface {
	isAppointmentShape()
}

// LegacyShape is the pre-pairs layout: every service performed by one stylist.
type LegacyShape struct {
	ServiceIDs []string
	StylistID  string
}

// PairedShape carries one stylist per selected service.
type PairedShape struct {
	Pairs []ServiceStylistPair
}

func (LegacyShape) isAppointmentShape() {}
func (PairedShape) isAppointmentShape() {}

// Shape tags the document. Any pair at all makes it a paired document.
func (d AppointmentData) Shape() AppointmentShape {
	if len(d.ServiceStylistPairs) > 0 {
		return PairedShape{Pairs: d.ServiceStylistPairs}
	}
	return LegacyShape{ServiceIDs: d.ServiceIDs, StylistID: d.StylistID}
}

// NormalizePairs converts either shape to canonical ordered pairs.
func NormalizePairs(shape AppointmentShape) []ServiceStylistPair {
	switch s := shape.(type) {
	case PairedShape:
		out := make([]ServiceStylistPair, len(s.Pairs))
		copy(out, s.Pairs)
		return out
	case LegacyShape:
		out := make([]ServiceStylistPair, 0, len(s.ServiceIDs))
		for _, serviceID := range s.ServiceIDs {
			out = append(out, ServiceStylistPair{ServiceID: serviceID, StylistID: s.StylistID})
		}
		return out
	default:
		return nil
	}
}
