package compose_booking

import (
	"context"
	"time"

	composeBooking "github.com/m04kA/SMC-SalonService/internal/usecase/compose_booking"
)

type ComposeBookingUseCase interface {
	Execute(ctx context.Context, req *composeBooking.Request) (*composeBooking.Response, error)
}

type TimeProvider interface {
	Now() time.Time
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
