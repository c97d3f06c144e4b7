package get_global_settings

import (
	"context"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

type SettingsService interface {
	GetOrCreateGlobal(ctx context.Context) (*domain.GlobalSettings, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
