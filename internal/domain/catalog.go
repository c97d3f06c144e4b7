package domain

import (
	"time"

	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// Operating window for default slots: start times from OpeningHour:00
// through LastSlotHour:00 inclusive.
const (
	OpeningHour  = 11
	LastSlotHour = 23
)

const labelLayout = "3:04 PM"

// DefaultSlots returns the catalog slot list for a duration.
// The result is freshly allocated on every call and always identical for the
// same duration. Unknown durations produce an empty list.
func DefaultSlots(duration SlotDuration) []SlotDescriptor {
	if !duration.IsValid() {
		return []SlotDescriptor{}
	}

	step := int(duration)
	first := OpeningHour * 60
	last := LastSlotHour * 60

	slots := make([]SlotDescriptor, 0, (last-first)/step+1)
	for start := first; start <= last; start += step {
		slots = append(slots, SlotDescriptor{
			Value:   types.NewTimeString(start/60, start%60),
			Label:   SlotLabel(start, start+step),
			Enabled: true,
		})
	}
	return slots
}

// SlotLabel renders "11:00 AM to 11:30 AM" for minute offsets from midnight.
// Offsets past midnight wrap, so 23:30 + 30 renders as "12:00 AM".
func SlotLabel(startMinutes, endMinutes int) string {
	return clockLabel(startMinutes) + " to " + clockLabel(endMinutes)
}

func clockLabel(minutes int) string {
	minutes = ((minutes % (24 * 60)) + 24*60) % (24 * 60)
	return time.Date(2000, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC).Format(labelLayout)
}
