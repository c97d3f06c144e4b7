package get_day_closures

import (
	"context"

	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

type SettingsService interface {
	GetDayClosures(ctx context.Context, date string) ([]types.TimeString, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
