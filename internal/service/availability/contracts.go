package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// SettingsProvider источник глобальных настроек и закрытий по дням
type SettingsProvider interface {
	GetOrCreateGlobal(ctx context.Context) (*domain.GlobalSettings, error)
	ClosuresFor(ctx context.Context, date time.Time) ([]types.TimeString, error)
}

// ReservationRepository агрегаты по бронированиям
type ReservationRepository interface {
	SumGuestsByTime(ctx context.Context, date time.Time, duration domain.SlotDuration) (map[types.TimeString]int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
