package reservations

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/availability"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	Update(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
	Stats(ctx context.Context) (*domain.ReservationStats, error)
	SumGuests(ctx context.Context, key domain.SlotKey, excludeID *uuid.UUID) (int, error)
	LockSlot(ctx context.Context, key domain.SlotKey) error
}

// AvailabilityResolver источник эффективных слотов даты
type AvailabilityResolver interface {
	EffectiveSlotsFor(ctx context.Context, date time.Time, duration domain.SlotDuration) (*availability.EffectiveSlots, error)
}

// SlotLocker взаимное исключение по ключу слота внутри процесса
type SlotLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics доменные метрики бронирований
type Metrics interface {
	ReservationTransition(from, to string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
