package get_transitions

import "github.com/m04kA/SMC-SalonService/internal/domain"

// TransitionsResponse разрешенные переходы из статуса
type TransitionsResponse struct {
	From     string   `json:"from"`
	Allowed  []string `json:"allowed"`
	Terminal bool     `json:"terminal"`
}

func fromStatus(s domain.AppointmentStatus) TransitionsResponse {
	next := domain.NextStatuses(s)
	allowed := make([]string, 0, len(next))
	for _, n := range next {
		allowed = append(allowed, n.String())
	}
	return TransitionsResponse{From: s.String(), Allowed: allowed, Terminal: s.IsTerminal()}
}
