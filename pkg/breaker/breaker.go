// Package breaker builds sony/gobreaker circuit breakers from config values.
package breaker

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// Settings mirrors the [*.breaker] config sections.
type Settings struct {
	FailureThreshold uint32
	OpenTimeout      time.Duration
	HalfOpenRequests uint32
}

// Logger receives state changes.
type Logger interface {
	Warn(format string, v ...interface{})
}

// New returns a breaker that opens after FailureThreshold consecutive failures.
// Errors for which isSuccessful returns true do not count as failures; nil means
// every non-nil error counts.
func New(name string, s Settings, log Logger, isSuccessful func(err error) bool) *gobreaker.CircuitBreaker[any] {
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 5
	}
	if s.HalfOpenRequests == 0 {
		s.HalfOpenRequests = 1
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: s.HalfOpenRequests,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if log != nil {
				log.Warn("circuit breaker %s: %s -> %s", name, from.String(), to.String())
			}
		},
		IsSuccessful: isSuccessful,
	}

	return gobreaker.NewCircuitBreaker[any](settings)
}

// IsOpen reports whether err was returned because the breaker rejected the call.
func IsOpen(err error) bool {
	return err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests
}
