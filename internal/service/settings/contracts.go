package settings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек
type SettingsRepository interface {
	GetGlobal(ctx context.Context) (*domain.GlobalSettings, error)
	CreateGlobal(ctx context.Context, s *domain.GlobalSettings) (*domain.GlobalSettings, error)
	UpdateGlobal(ctx context.Context, s *domain.GlobalSettings) (*domain.GlobalSettings, error)
	GetDay(ctx context.Context, date time.Time) (*domain.DaySettings, error)
	UpsertDay(ctx context.Context, day *domain.DaySettings) (*domain.DaySettings, error)
	DeleteDay(ctx context.Context, date time.Time) (bool, error)
	ListDays(ctx context.Context) ([]*domain.DaySettings, error)
}

// SettingsCache кэш снимка глобальных настроек (опционален)
type SettingsCache interface {
	Get(ctx context.Context) (*domain.GlobalSettings, error)
	Set(ctx context.Context, s *domain.GlobalSettings) error
	Invalidate(ctx context.Context) error
}

// Metrics метрики кэша
type Metrics interface {
	SettingsCacheResult(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
