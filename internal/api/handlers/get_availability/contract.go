package get_availability

import (
	"context"

	"github.com/m04kA/SMC-VenueBookingService/internal/service/availability"
)

type AvailabilityService interface {
	GetAvailability(ctx context.Context, date string, durationMinutes int) (*availability.Availability, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
