package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// Service вычисляет эффективные слоты и их занятость. Состояния не хранит
type Service struct {
	settings     SettingsProvider
	reservations ReservationRepository
	logger       Logger
}

// NewService создает сервис доступности
func NewService(settings SettingsProvider, reservations ReservationRepository, logger Logger) *Service {
	return &Service{
		settings:     settings,
		reservations: reservations,
		logger:       logger,
	}
}

// GetEffectiveSlots включенные слоты на дату для длительности
func (s *Service) GetEffectiveSlots(ctx context.Context, date string, durationMinutes int) (*EffectiveSlots, error) {
	day, duration, err := parseArgs(date, durationMinutes)
	if err != nil {
		s.logger.Warn("GetEffectiveSlots: %v", err)
		return nil, err
	}
	return s.EffectiveSlotsFor(ctx, day, duration)
}

// EffectiveSlotsFor то же для разобранных аргументов
//
// enabled := storedEnabled AND NOT closed; порядок сохраняется
func (s *Service) EffectiveSlotsFor(ctx context.Context, date time.Time, duration domain.SlotDuration) (*EffectiveSlots, error) {
	// 1. Глобальные настройки (создаются при первом обращении)
	global, err := s.settings.GetOrCreateGlobal(ctx)
	if err != nil {
		s.logger.Error("EffectiveSlots: failed to load settings: %v", err)
		return nil, fmt.Errorf("%w: EffectiveSlots - load settings: %v", ErrInternal, err)
	}

	// 2. Закрытия на дату
	closed, err := s.settings.ClosuresFor(ctx, date)
	if err != nil {
		s.logger.Error("EffectiveSlots: failed to load closures for date=%s: %v", domain.DateKey(date), err)
		return nil, fmt.Errorf("%w: EffectiveSlots - load closures: %v", ErrInternal, err)
	}

	closedSet := (&domain.DaySettings{ClosedSlotValues: closed}).ClosedSet()

	// 3. Композиция
	return &EffectiveSlots{
		Date:             date,
		Duration:         duration,
		Slots:            domain.ApplyClosures(global.SlotsFor(duration), closedSet),
		MaxGuestsPerSlot: global.EffectiveMaxGuests(),
		DurationsEnabled: global.DurationsEnabled,
	}, nil
}

// GetAvailability занятость каждого эффективного слота даты
// Слоты без бронирований считаются свободными
func (s *Service) GetAvailability(ctx context.Context, date string, durationMinutes int) (*Availability, error) {
	day, duration, err := parseArgs(date, durationMinutes)
	if err != nil {
		s.logger.Warn("GetAvailability: %v", err)
		return nil, err
	}

	// 1. Эффективные слоты
	effective, err := s.EffectiveSlotsFor(ctx, day, duration)
	if err != nil {
		return nil, err
	}

	// 2. Сумма гостей pending и confirmed бронирований по времени
	booked, err := s.reservations.SumGuestsByTime(ctx, day, duration)
	if err != nil {
		s.logger.Error("GetAvailability: failed to sum bookings for date=%s: %v", date, err)
		return nil, fmt.Errorf("%w: GetAvailability - sum bookings: %v", ErrInternal, err)
	}

	// 3. Строка на каждый включенный слот
	slots := make([]domain.SlotAvailability, 0, len(effective.Slots))
	for _, slot := range effective.Slots {
		count := booked[slot.Value]
		slots = append(slots, domain.SlotAvailability{
			Time:             slot.Value,
			Label:            slot.Label,
			BookedCount:      count,
			MaxGuestsPerSlot: effective.MaxGuestsPerSlot,
			IsFull:           count >= effective.MaxGuestsPerSlot,
		})
	}

	s.logger.Info("GetAvailability: date=%s, duration=%d, slots=%d", date, duration, len(slots))

	return &Availability{
		Date:             day,
		Duration:         duration,
		Slots:            slots,
		TimeSlots:        effective.Slots,
		MaxGuestsPerSlot: effective.MaxGuestsPerSlot,
		DurationsEnabled: effective.DurationsEnabled,
	}, nil
}

func parseArgs(date string, durationMinutes int) (time.Time, domain.SlotDuration, error) {
	day, err := domain.ParseDate(date)
	if err != nil {
		return time.Time{}, 0, err
	}
	duration, err := domain.ParseSlotDuration(durationMinutes)
	if err != nil {
		return time.Time{}, 0, err
	}
	return day, duration, nil
}
