package get_effective_slots

import (
	"context"

	"github.com/m04kA/SMC-VenueBookingService/internal/service/availability"
)

type AvailabilityService interface {
	GetEffectiveSlots(ctx context.Context, date string, durationMinutes int) (*availability.EffectiveSlots, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
