package get_public_settings

import (
	"context"

	"github.com/m04kA/SMC-VenueBookingService/internal/service/settings/models"
)

type SettingsService interface {
	GetPublicSettings(ctx context.Context) (*models.PublicSettings, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
