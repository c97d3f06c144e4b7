package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/ptr"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

func TestSanitizeSlots(t *testing.T) {
	got := SanitizeSlots([]SlotInput{
		{Value: " 18:00 ", Label: " Evening ", Enabled: ptr.Ptr(false)},
		{Value: "", Label: "empty"},
		{Value: "   "},
		{Value: "late night"},
		{Value: "9:30"},
		{Value: "18:00", Label: "duplicate"},
	})

	require.Len(t, got, 2)
	assert.Equal(t, domain.SlotDescriptor{Value: "18:00", Label: "Evening", Enabled: false}, got[0])
	assert.Equal(t, domain.SlotDescriptor{Value: "09:30", Label: "09:30", Enabled: true}, got[1])
}

func TestSanitizeClosures(t *testing.T) {
	got := SanitizeClosures([]string{" 12:00", "", "12:00", "noon", "14:00 "})
	assert.Equal(t, []types.TimeString{"12:00", "14:00"}, got)
}

func TestUpdateGlobalSettingsRequest_ApplyTo(t *testing.T) {
	s := domain.NewDefaultGlobalSettings()
	original60 := s.Slots60

	empty := []SlotInput{{Value: "  "}}
	req := &UpdateGlobalSettingsRequest{
		Slots30:          &empty,
		MaxGuestsPerSlot: ptr.Ptr(30.6),
		DurationsEnabled: &DurationsPatch{ThirtyMinutes: ptr.Ptr(false)},
	}

	res := req.ApplyTo(s)

	assert.True(t, res.Slots30Defaulted)
	assert.Equal(t, domain.DefaultSlots(domain.Duration30), s.Slots30)
	assert.Equal(t, original60, s.Slots60)
	assert.Equal(t, 31, s.MaxGuestsPerSlot)
	assert.Equal(t, domain.DurationsEnabled{Thirty: false, Sixty: true}, s.DurationsEnabled)
}

func TestUpdateGlobalSettingsRequest_MaxGuestsOutOfRangeIgnored(t *testing.T) {
	for _, v := range []float64{0, 0.5, 500.5, 1000, -3} {
		s := domain.NewDefaultGlobalSettings()
		res := (&UpdateGlobalSettingsRequest{MaxGuestsPerSlot: ptr.Ptr(v)}).ApplyTo(s)

		assert.True(t, res.MaxGuestsIgnored, "value %v", v)
		assert.Equal(t, domain.DefaultMaxGuestsPerSlot, s.MaxGuestsPerSlot)
	}
}

func TestToPublicSettings(t *testing.T) {
	s := domain.NewDefaultGlobalSettings()
	s.Slots60[0].Enabled = false

	pub := ToPublicSettings(s)

	assert.Len(t, pub.Slots30, 25)
	assert.Len(t, pub.Slots60, 12)
	assert.Equal(t, types.TimeString("12:00"), pub.Slots60[0].Value)
}
