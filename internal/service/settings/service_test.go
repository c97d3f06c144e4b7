package settings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	settingsCache "github.com/m04kA/SMC-VenueBookingService/internal/infra/cache/settings"
	settingsRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/settings/models"
	"github.com/m04kA/SMC-VenueBookingService/pkg/logger"
	"github.com/m04kA/SMC-VenueBookingService/pkg/metrics"
	"github.com/m04kA/SMC-VenueBookingService/pkg/ptr"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// memoryRepo хранилище настроек в памяти с семантикой PostgreSQL-репозитория
type memoryRepo struct {
	mu              sync.Mutex
	global          *domain.GlobalSettings
	days            map[string]*domain.DaySettings
	creates         int
	conflictsToFake int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{days: make(map[string]*domain.DaySettings)}
}

func clone(s *domain.GlobalSettings) *domain.GlobalSettings {
	c := *s
	c.Slots30 = append([]domain.SlotDescriptor(nil), s.Slots30...)
	c.Slots60 = append([]domain.SlotDescriptor(nil), s.Slots60...)
	return &c
}

func (r *memoryRepo) GetGlobal(ctx context.Context) (*domain.GlobalSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.global == nil {
		return nil, settingsRepo.ErrGlobalSettingsNotFound
	}
	return clone(r.global), nil
}

func (r *memoryRepo) CreateGlobal(ctx context.Context, s *domain.GlobalSettings) (*domain.GlobalSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.global != nil {
		return nil, settingsRepo.ErrGlobalSettingsExists
	}
	r.creates++
	s.Version = 1
	r.global = clone(s)
	return clone(s), nil
}

func (r *memoryRepo) UpdateGlobal(ctx context.Context, s *domain.GlobalSettings) (*domain.GlobalSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictsToFake > 0 {
		r.conflictsToFake--
		r.global.Version++
		return nil, settingsRepo.ErrVersionConflict
	}
	if r.global == nil || r.global.Version != s.Version {
		return nil, settingsRepo.ErrVersionConflict
	}
	s.Version++
	r.global = clone(s)
	return clone(s), nil
}

func (r *memoryRepo) GetDay(ctx context.Context, date time.Time) (*domain.DaySettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	day, ok := r.days[domain.DateKey(date)]
	if !ok {
		return nil, settingsRepo.ErrDaySettingsNotFound
	}
	return day, nil
}

func (r *memoryRepo) UpsertDay(ctx context.Context, day *domain.DaySettings) (*domain.DaySettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.days[domain.DateKey(day.Date)] = day
	return day, nil
}

func (r *memoryRepo) DeleteDay(ctx context.Context, date time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := domain.DateKey(date)
	_, ok := r.days[key]
	delete(r.days, key)
	return ok, nil
}

func (r *memoryRepo) ListDays(ctx context.Context) ([]*domain.DaySettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.DaySettings, 0, len(r.days))
	for _, d := range r.days {
		out = append(out, d)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Date.Before(out[j-1].Date); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

type fakeCache struct {
	stored      *domain.GlobalSettings
	invalidated int
}

func (c *fakeCache) Get(ctx context.Context) (*domain.GlobalSettings, error) {
	if c.stored == nil {
		return nil, settingsCache.ErrCacheMiss
	}
	return clone(c.stored), nil
}

func (c *fakeCache) Set(ctx context.Context, s *domain.GlobalSettings) error {
	c.stored = clone(s)
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context) error {
	c.stored = nil
	c.invalidated++
	return nil
}

func newService(repo SettingsRepository, cache SettingsCache) *Service {
	var m *metrics.Metrics
	return NewService(repo, cache, m, logger.NewNop())
}

func TestService_GetOrCreateGlobal_CreatesDefaultsOnce(t *testing.T) {
	repo := newMemoryRepo()
	svc := newService(repo, nil)

	first, err := svc.GetOrCreateGlobal(context.Background())
	require.NoError(t, err)
	second, err := svc.GetOrCreateGlobal(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first.Slots30, 25)
	assert.Len(t, first.Slots60, 13)
	assert.Equal(t, domain.DefaultMaxGuestsPerSlot, first.MaxGuestsPerSlot)
	assert.Equal(t, domain.DurationsEnabled{Thirty: true, Sixty: true}, first.DurationsEnabled)
	assert.Equal(t, 1, repo.creates)
}

func TestService_GetOrCreateGlobal_ConcurrentFirstAccess(t *testing.T) {
	repo := newMemoryRepo()
	svc := newService(repo, nil)

	const n = 20
	var wg sync.WaitGroup
	results := make([]*domain.GlobalSettings, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.GetOrCreateGlobal(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0].Slots30, results[i].Slots30)
	}
	assert.Equal(t, 1, repo.creates)
}

func TestService_GetOrCreateGlobal_BackfillsEmptyLists(t *testing.T) {
	repo := newMemoryRepo()
	repo.global = &domain.GlobalSettings{
		ID:               domain.GlobalSettingsID,
		Slots30:          []domain.SlotDescriptor{},
		Slots60:          []domain.SlotDescriptor{{Value: "18:00", Label: "evening", Enabled: true}},
		MaxGuestsPerSlot: 10,
		Version:          4,
	}
	svc := newService(repo, nil)

	s, err := svc.GetOrCreateGlobal(context.Background())
	require.NoError(t, err)

	assert.Len(t, s.Slots30, 25)
	assert.Len(t, s.Slots60, 1)
	assert.Equal(t, int64(5), s.Version)
	assert.Len(t, repo.global.Slots30, 25)
}

func TestService_GetOrCreateGlobal_UsesCache(t *testing.T) {
	repo := newMemoryRepo()
	cache := &fakeCache{}
	svc := newService(repo, cache)

	_, err := svc.GetOrCreateGlobal(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cache.stored)

	repo.global.MaxGuestsPerSlot = 99

	cached, err := svc.GetOrCreateGlobal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMaxGuestsPerSlot, cached.MaxGuestsPerSlot)
}

func TestService_UpdateGlobal(t *testing.T) {
	repo := newMemoryRepo()
	cache := &fakeCache{}
	svc := newService(repo, cache)

	slots := []models.SlotInput{{Value: "19:00", Label: "Dinner"}, {Value: " "}}
	updated, err := svc.UpdateGlobal(context.Background(), &models.UpdateGlobalSettingsRequest{
		Slots60:          &slots,
		MaxGuestsPerSlot: ptr.Ptr(12.0),
		DurationsEnabled: &models.DurationsPatch{ThirtyMinutes: ptr.Ptr(false)},
	})
	require.NoError(t, err)

	assert.Equal(t, []domain.SlotDescriptor{{Value: "19:00", Label: "Dinner", Enabled: true}}, updated.Slots60)
	assert.Len(t, updated.Slots30, 25)
	assert.Equal(t, 12, updated.MaxGuestsPerSlot)
	assert.False(t, updated.DurationsEnabled.Thirty)
	assert.True(t, updated.DurationsEnabled.Sixty)
	assert.Equal(t, 1, cache.invalidated)
	assert.Nil(t, cache.stored)

	again, err := svc.GetOrCreateGlobal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, updated.Slots60, again.Slots60)
}

func TestService_UpdateGlobal_RetriesVersionConflict(t *testing.T) {
	repo := newMemoryRepo()
	svc := newService(repo, nil)
	_, err := svc.GetOrCreateGlobal(context.Background())
	require.NoError(t, err)

	repo.conflictsToFake = 2
	updated, err := svc.UpdateGlobal(context.Background(), &models.UpdateGlobalSettingsRequest{MaxGuestsPerSlot: ptr.Ptr(40.0)})
	require.NoError(t, err)
	assert.Equal(t, 40, updated.MaxGuestsPerSlot)

	repo.conflictsToFake = maxUpdateAttempts
	_, err = svc.UpdateGlobal(context.Background(), &models.UpdateGlobalSettingsRequest{MaxGuestsPerSlot: ptr.Ptr(41.0)})
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
}

func TestService_DayClosures(t *testing.T) {
	repo := newMemoryRepo()
	svc := newService(repo, nil)
	ctx := context.Background()

	closed, err := svc.GetDayClosures(ctx, "2026-10-20")
	require.NoError(t, err)
	assert.Empty(t, closed)

	_, err = svc.SetDayClosures(ctx, "2026-10-20", []string{" 12:00 ", "", "14:00"})
	require.NoError(t, err)
	_, err = svc.SetDayClosures(ctx, "2026-10-19", []string{"13:00"})
	require.NoError(t, err)

	closed, err = svc.GetDayClosures(ctx, "2026-10-20")
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"12:00", "14:00"}, closed)

	days, err := svc.ListDayOverrides(ctx)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2026-10-19", domain.DateKey(days[0].Date))

	require.NoError(t, svc.ClearDayClosures(ctx, "2026-10-20"))
	require.NoError(t, svc.ClearDayClosures(ctx, "2026-10-20"))

	closed, err = svc.GetDayClosures(ctx, "2026-10-20")
	require.NoError(t, err)
	assert.Empty(t, closed)
}

func TestService_DayClosures_InvalidDate(t *testing.T) {
	svc := newService(newMemoryRepo(), nil)
	ctx := context.Background()

	_, err := svc.GetDayClosures(ctx, "20-10-2026")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SetDayClosures(ctx, "2026/10/20", []string{"12:00"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.True(t, errors.Is(svc.ClearDayClosures(ctx, "tomorrow"), ErrInvalidInput))
}
