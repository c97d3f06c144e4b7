package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-10-20")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-20", DateKey(d))

	for _, bad := range []string{"2026-1-20", "20-10-2026", "2026-13-01", "", "2026-10-20T00:00"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}

func TestParseSlotDuration(t *testing.T) {
	d, err := ParseSlotDuration(30)
	require.NoError(t, err)
	assert.Equal(t, Duration30, d)

	_, err = ParseSlotDuration(45)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGlobalSettings_SlotsForFallsBackToCatalog(t *testing.T) {
	s := &GlobalSettings{Slots60: []SlotDescriptor{{Value: "18:00", Label: "evening", Enabled: true}}}

	assert.Len(t, s.SlotsFor(Duration30), 25)
	assert.Equal(t, []SlotDescriptor{{Value: "18:00", Label: "evening", Enabled: true}}, s.SlotsFor(Duration60))

	assert.True(t, s.BackfillEmpty())
	assert.Len(t, s.Slots30, 25)
	assert.False(t, s.BackfillEmpty())
}

func TestGlobalSettings_EffectiveMaxGuests(t *testing.T) {
	assert.Equal(t, 10, (&GlobalSettings{MaxGuestsPerSlot: 10}).EffectiveMaxGuests())
	assert.Equal(t, DefaultMaxGuestsPerSlot, (&GlobalSettings{}).EffectiveMaxGuests())
	assert.Equal(t, DefaultMaxGuestsPerSlot, (&GlobalSettings{MaxGuestsPerSlot: 900}).EffectiveMaxGuests())
}

func TestApplyClosures(t *testing.T) {
	slots := []SlotDescriptor{
		{Value: "13:00", Enabled: true},
		{Value: "14:00", Enabled: true},
		{Value: "15:00", Enabled: false},
		{Value: "16:00", Enabled: true},
	}
	day := &DaySettings{ClosedSlotValues: []types.TimeString{"14:00", "22:00"}}

	got := ApplyClosures(slots, day.ClosedSet())

	require.Len(t, got, 2)
	assert.Equal(t, types.TimeString("13:00"), got[0].Value)
	assert.Equal(t, types.TimeString("16:00"), got[1].Value)
	assert.True(t, ContainsSlot(got, "16:00"))
	assert.False(t, ContainsSlot(got, "14:00"))

	var none *DaySettings
	assert.Len(t, ApplyClosures(slots, none.ClosedSet()), 3)
}
