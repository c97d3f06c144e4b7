package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// SlotKey identifies the capacity group of a reservation
type SlotKey struct {
	Date     time.Time
	Time     types.TimeString
	Duration SlotDuration
}

// String is used as the lock key, e.g. "2026-10-20|14:00|60"
func (k SlotKey) String() string {
	return fmt.Sprintf("%s|%s|%d", DateKey(k.Date), k.Time, k.Duration)
}

// Equal compares keys by calendar date, time and duration
func (k SlotKey) Equal(other SlotKey) bool {
	return k.String() == other.String()
}

// SlotAvailability is one row of the per-date availability view
type SlotAvailability struct {
	Time             types.TimeString
	Label            string
	BookedCount      int
	MaxGuestsPerSlot int
	IsFull           bool
}

// Remaining returns seats left, never negative
func (s SlotAvailability) Remaining() int {
	if r := s.MaxGuestsPerSlot - s.BookedCount; r > 0 {
		return r
	}
	return 0
}

// OccupancyRate returns booked/max in [0, 1+]
func (s SlotAvailability) OccupancyRate() float64 {
	if s.MaxGuestsPerSlot == 0 {
		return 0
	}
	return float64(s.BookedCount) / float64(s.MaxGuestsPerSlot)
}
