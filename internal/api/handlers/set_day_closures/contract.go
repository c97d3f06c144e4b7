package set_day_closures

import (
	"context"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

type SettingsService interface {
	SetDayClosures(ctx context.Context, date string, closedValues []string) (*domain.DaySettings, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
