package update_global_settings

import (
	"context"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/settings/models"
)

type SettingsService interface {
	UpdateGlobal(ctx context.Context, req *models.UpdateGlobalSettingsRequest) (*domain.GlobalSettings, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
