package availability

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/logger"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

type fakeSettings struct {
	global   *domain.GlobalSettings
	closures map[string][]types.TimeString
	err      error
}

func (f *fakeSettings) GetOrCreateGlobal(_ context.Context) (*domain.GlobalSettings, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.global, nil
}

func (f *fakeSettings) ClosuresFor(_ context.Context, date time.Time) ([]types.TimeString, error) {
	return f.closures[domain.DateKey(date)], nil
}

type fakeReservations struct {
	booked map[string]map[types.TimeString]int
}

func (f *fakeReservations) SumGuestsByTime(_ context.Context, date time.Time, duration domain.SlotDuration) (map[types.TimeString]int, error) {
	return f.booked[fmt.Sprintf("%s|%d", domain.DateKey(date), duration)], nil
}

func newTestService() (*Service, *fakeSettings, *fakeReservations) {
	settings := &fakeSettings{
		global:   domain.NewDefaultGlobalSettings(),
		closures: map[string][]types.TimeString{},
	}
	reservations := &fakeReservations{booked: map[string]map[types.TimeString]int{}}
	return NewService(settings, reservations, logger.NewNop()), settings, reservations
}

func values(slots []domain.SlotDescriptor) []types.TimeString {
	out := make([]types.TimeString, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Value)
	}
	return out
}

func TestService_GetEffectiveSlots_Defaults(t *testing.T) {
	svc, _, _ := newTestService()

	got, err := svc.GetEffectiveSlots(context.Background(), "2026-10-20", 60)
	require.NoError(t, err)

	assert.Len(t, got.Slots, 13)
	assert.Equal(t, domain.DefaultMaxGuestsPerSlot, got.MaxGuestsPerSlot)
	assert.True(t, got.DurationsEnabled.Sixty)
	assert.Equal(t, types.TimeString("11:00"), got.Slots[0].Value)
	assert.Equal(t, types.TimeString("23:00"), got.Slots[12].Value)
}

func TestService_GetEffectiveSlots_ClosureAppliesToOneDay(t *testing.T) {
	svc, settings, _ := newTestService()
	settings.closures["2026-10-20"] = []types.TimeString{"14:00"}

	closedDay, err := svc.GetEffectiveSlots(context.Background(), "2026-10-20", 60)
	require.NoError(t, err)
	assert.NotContains(t, values(closedDay.Slots), types.TimeString("14:00"))
	assert.Len(t, closedDay.Slots, 12)

	nextDay, err := svc.GetEffectiveSlots(context.Background(), "2026-10-21", 60)
	require.NoError(t, err)
	assert.Contains(t, values(nextDay.Slots), types.TimeString("14:00"))
	assert.True(t, nextDay.Contains("14:00"))
}

func TestService_GetEffectiveSlots_DayReset(t *testing.T) {
	svc, settings, _ := newTestService()

	before, err := svc.GetEffectiveSlots(context.Background(), "2026-10-20", 30)
	require.NoError(t, err)

	settings.closures["2026-10-20"] = []types.TimeString{"12:00"}
	closed, err := svc.GetEffectiveSlots(context.Background(), "2026-10-20", 30)
	require.NoError(t, err)
	assert.Len(t, closed.Slots, len(before.Slots)-1)

	delete(settings.closures, "2026-10-20")
	after, err := svc.GetEffectiveSlots(context.Background(), "2026-10-20", 30)
	require.NoError(t, err)
	assert.Equal(t, before.Slots, after.Slots)
	assert.Equal(t, domain.DefaultSlots(domain.Duration30), after.Slots)
}

func TestService_GetEffectiveSlots_DisabledGlobally(t *testing.T) {
	svc, settings, _ := newTestService()
	settings.global.Slots60[0].Enabled = false

	got, err := svc.GetEffectiveSlots(context.Background(), "2026-10-20", 60)
	require.NoError(t, err)

	assert.Len(t, got.Slots, 12)
	assert.Equal(t, types.TimeString("12:00"), got.Slots[0].Value)
}

func TestService_GetEffectiveSlots_EmptyStoredListFallsBack(t *testing.T) {
	svc, settings, _ := newTestService()
	settings.global.Slots30 = nil

	got, err := svc.GetEffectiveSlots(context.Background(), "2026-10-20", 30)
	require.NoError(t, err)
	assert.Len(t, got.Slots, 25)
}

func TestService_GetEffectiveSlots_InvalidInput(t *testing.T) {
	svc, _, _ := newTestService()

	tests := []struct {
		name     string
		date     string
		duration int
	}{
		{name: "bad date", date: "20-10-2026", duration: 60},
		{name: "impossible date", date: "2026-02-30", duration: 60},
		{name: "bad duration", date: "2026-10-20", duration: 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetEffectiveSlots(context.Background(), tt.date, tt.duration)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_GetEffectiveSlots_SettingsFailure(t *testing.T) {
	svc, settings, _ := newTestService()
	settings.err = errors.New("connection refused")

	_, err := svc.GetEffectiveSlots(context.Background(), "2026-10-20", 60)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_GetAvailability(t *testing.T) {
	svc, settings, reservations := newTestService()
	settings.global.MaxGuestsPerSlot = 10
	settings.closures["2026-10-20"] = []types.TimeString{"15:00"}
	reservations.booked["2026-10-20|60"] = map[types.TimeString]int{
		"14:00": 4,
		"16:00": 10,
		"15:00": 3, // закрытый слот не попадает в ответ
	}

	got, err := svc.GetAvailability(context.Background(), "2026-10-20", 60)
	require.NoError(t, err)

	require.Len(t, got.Slots, 12)
	byTime := make(map[types.TimeString]domain.SlotAvailability)
	for _, s := range got.Slots {
		byTime[s.Time] = s
	}

	assert.Equal(t, 4, byTime["14:00"].BookedCount)
	assert.False(t, byTime["14:00"].IsFull)
	assert.Equal(t, 6, byTime["14:00"].Remaining())

	assert.True(t, byTime["16:00"].IsFull)
	assert.Equal(t, 0, byTime["16:00"].Remaining())

	assert.Equal(t, 0, byTime["11:00"].BookedCount)
	assert.Equal(t, 10, byTime["11:00"].MaxGuestsPerSlot)

	_, present := byTime["15:00"]
	assert.False(t, present)
}
