package list_day_overrides

import (
	"context"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

type SettingsService interface {
	ListDayOverrides(ctx context.Context) ([]*domain.DaySettings, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
