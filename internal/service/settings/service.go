package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	settingsCache "github.com/m04kA/SMC-VenueBookingService/internal/infra/cache/settings"
	settingsRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/settings/models"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// maxUpdateAttempts попытки обновления при конфликте версий
const maxUpdateAttempts = 3

// Service хранилище глобальных настроек и закрытий по дням
type Service struct {
	repo    SettingsRepository
	cache   SettingsCache
	metrics Metrics
	logger  Logger
}

// NewService создает сервис настроек. cache может быть nil
func NewService(repo SettingsRepository, cache SettingsCache, metrics Metrics, logger Logger) *Service {
	return &Service{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// GetOrCreateGlobal возвращает глобальные настройки, создавая их при первом обращении
// Пустые списки слотов дозаполняются каталогом по умолчанию
func (s *Service) GetOrCreateGlobal(ctx context.Context) (*domain.GlobalSettings, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	settings, err := s.loadOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, settings)
	return settings, nil
}

// GetPublicSettings настройки для клиентов: только включенные слоты
func (s *Service) GetPublicSettings(ctx context.Context) (*models.PublicSettings, error) {
	settings, err := s.GetOrCreateGlobal(ctx)
	if err != nil {
		return nil, err
	}
	return models.ToPublicSettings(settings), nil
}

// UpdateGlobal применяет частичное обновление с оптимистичной блокировкой
func (s *Service) UpdateGlobal(ctx context.Context, req *models.UpdateGlobalSettingsRequest) (*domain.GlobalSettings, error) {
	s.logger.Info("UpdateGlobal: applying settings patch")

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		current, err := s.loadOrCreate(ctx)
		if err != nil {
			return nil, err
		}

		result := req.ApplyTo(current)
		if result.MaxGuestsIgnored {
			s.logger.Warn("UpdateGlobal: maxGuestsPerSlot=%v out of range [%d, %d], keeping %d",
				*req.MaxGuestsPerSlot, domain.MinGuestsPerSlot, domain.MaxGuestsPerSlot, current.MaxGuestsPerSlot)
		}
		if result.Slots30Defaulted || result.Slots60Defaulted {
			s.logger.Info("UpdateGlobal: empty slot list replaced by defaults (30=%t, 60=%t)",
				result.Slots30Defaulted, result.Slots60Defaulted)
		}

		updated, err := s.repo.UpdateGlobal(ctx, current)
		if errors.Is(err, settingsRepo.ErrVersionConflict) {
			s.logger.Warn("UpdateGlobal: version conflict on attempt %d", attempt)
			continue
		}
		if err != nil {
			s.logger.Error("UpdateGlobal: repository error: %v", err)
			return nil, fmt.Errorf("%w: UpdateGlobal - repository error: %v", ErrInternal, err)
		}

		s.invalidateCache(ctx)
		s.logger.Info("UpdateGlobal: settings updated to version=%d, maxGuestsPerSlot=%d",
			updated.Version, updated.MaxGuestsPerSlot)
		return updated, nil
	}

	s.logger.Error("UpdateGlobal: gave up after %d attempts", maxUpdateAttempts)
	return nil, ErrConcurrentUpdate
}

// GetDayClosures возвращает закрытые слоты на дату (пустой список, если записи нет)
func (s *Service) GetDayClosures(ctx context.Context, date string) ([]types.TimeString, error) {
	day, err := domain.ParseDate(date)
	if err != nil {
		s.logger.Warn("GetDayClosures: %v", err)
		return nil, err
	}
	return s.ClosuresFor(ctx, day)
}

// ClosuresFor то же, что GetDayClosures, для уже разобранной даты
func (s *Service) ClosuresFor(ctx context.Context, date time.Time) ([]types.TimeString, error) {
	day, err := s.repo.GetDay(ctx, date)
	if errors.Is(err, settingsRepo.ErrDaySettingsNotFound) {
		return []types.TimeString{}, nil
	}
	if err != nil {
		s.logger.Error("ClosuresFor: repository error for date=%s: %v", domain.DateKey(date), err)
		return nil, fmt.Errorf("%w: ClosuresFor - repository error: %v", ErrInternal, err)
	}
	return day.ClosedSlotValues, nil
}

// SetDayClosures создает или заменяет закрытия на дату
func (s *Service) SetDayClosures(ctx context.Context, date string, closedValues []string) (*domain.DaySettings, error) {
	day, err := domain.ParseDate(date)
	if err != nil {
		s.logger.Warn("SetDayClosures: %v", err)
		return nil, err
	}

	closed := models.SanitizeClosures(closedValues)
	saved, err := s.repo.UpsertDay(ctx, &domain.DaySettings{Date: day, ClosedSlotValues: closed})
	if err != nil {
		s.logger.Error("SetDayClosures: repository error for date=%s: %v", date, err)
		return nil, fmt.Errorf("%w: SetDayClosures - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetDayClosures: date=%s, closed=%v", date, closed)
	return saved, nil
}

// ClearDayClosures удаляет запись даты; отсутствие записи не ошибка
func (s *Service) ClearDayClosures(ctx context.Context, date string) error {
	day, err := domain.ParseDate(date)
	if err != nil {
		s.logger.Warn("ClearDayClosures: %v", err)
		return err
	}

	deleted, err := s.repo.DeleteDay(ctx, day)
	if err != nil {
		s.logger.Error("ClearDayClosures: repository error for date=%s: %v", date, err)
		return fmt.Errorf("%w: ClearDayClosures - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ClearDayClosures: date=%s, deleted=%t", date, deleted)
	return nil
}

// ListDayOverrides все записи закрытий по возрастанию даты
func (s *Service) ListDayOverrides(ctx context.Context) ([]*domain.DaySettings, error) {
	days, err := s.repo.ListDays(ctx)
	if err != nil {
		s.logger.Error("ListDayOverrides: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListDayOverrides - repository error: %v", ErrInternal, err)
	}
	return days, nil
}

// loadOrCreate читает настройки из БД, создавая запись при отсутствии
func (s *Service) loadOrCreate(ctx context.Context) (*domain.GlobalSettings, error) {
	settings, err := s.repo.GetGlobal(ctx)
	if errors.Is(err, settingsRepo.ErrGlobalSettingsNotFound) {
		settings, err = s.create(ctx)
	}
	if err != nil {
		s.logger.Error("GetOrCreateGlobal: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetOrCreateGlobal - repository error: %v", ErrInternal, err)
	}

	if settings.BackfillEmpty() {
		s.logger.Info("GetOrCreateGlobal: backfilling empty slot lists with defaults")
		updated, err := s.repo.UpdateGlobal(ctx, settings)
		switch {
		case errors.Is(err, settingsRepo.ErrVersionConflict):
			// кто-то обновил запись параллельно, перечитываем
			reread, err := s.repo.GetGlobal(ctx)
			if err != nil {
				return nil, fmt.Errorf("%w: GetOrCreateGlobal - re-read after backfill: %v", ErrInternal, err)
			}
			return reread, nil
		case err != nil:
			s.logger.Error("GetOrCreateGlobal: backfill failed: %v", err)
			return nil, fmt.Errorf("%w: GetOrCreateGlobal - backfill: %v", ErrInternal, err)
		}
		settings = updated
	}

	return settings, nil
}

func (s *Service) create(ctx context.Context) (*domain.GlobalSettings, error) {
	created, err := s.repo.CreateGlobal(ctx, domain.NewDefaultGlobalSettings())
	if errors.Is(err, settingsRepo.ErrGlobalSettingsExists) {
		s.logger.Info("GetOrCreateGlobal: settings created concurrently, re-reading")
		return s.repo.GetGlobal(ctx)
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info("GetOrCreateGlobal: created default settings")
	return created, nil
}

func (s *Service) fromCache(ctx context.Context) *domain.GlobalSettings {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.Get(ctx)
	switch {
	case err == nil:
		s.metrics.SettingsCacheResult("hit")
		return cached
	case errors.Is(err, settingsCache.ErrCacheMiss):
		s.metrics.SettingsCacheResult("miss")
	default:
		s.metrics.SettingsCacheResult("error")
		s.logger.Warn("GetOrCreateGlobal: cache read failed: %v", err)
	}
	return nil
}

func (s *Service) toCache(ctx context.Context, settings *domain.GlobalSettings) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, settings); err != nil {
		s.logger.Warn("GetOrCreateGlobal: cache write failed: %v", err)
	}
}

func (s *Service) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("UpdateGlobal: cache invalidation failed: %v", err)
	}
}
