package domain

import (
	"fmt"
	"regexp"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// SlotDuration length of a bookable slot in minutes
type SlotDuration int

const (
	Duration30 SlotDuration = 30
	Duration60 SlotDuration = 60
)

// SupportedDurations in catalog order
var SupportedDurations = []SlotDuration{Duration30, Duration60}

func (d SlotDuration) IsValid() bool {
	return d == Duration30 || d == Duration60
}

func (d SlotDuration) Minutes() int {
	return int(d)
}

// ParseSlotDuration validates a raw minute count
func ParseSlotDuration(minutes int) (SlotDuration, error) {
	d := SlotDuration(minutes)
	if !d.IsValid() {
		return 0, fmt.Errorf("%w: unsupported slot duration %d", ErrInvalidInput, minutes)
	}
	return d, nil
}

// ParseDate validates a YYYY-MM-DD key and returns midnight UTC of that day
func ParseDate(s string) (time.Time, error) {
	if !dateKeyPattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("%w: date %q must match YYYY-MM-DD", ErrInvalidInput, s)
	}
	d, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: %v", ErrInvalidInput, s, err)
	}
	return d, nil
}

// DateKey formats a calendar date as YYYY-MM-DD
func DateKey(d time.Time) string {
	return d.Format(DateFormat)
}

// SlotDescriptor is one bookable start time with its display label.
// Only Enabled is ever overridden downstream of the catalog.
type SlotDescriptor struct {
	Value   types.TimeString `json:"value"`
	Label   string           `json:"label"`
	Enabled bool             `json:"enabled"`
}

// DurationsEnabled which slot durations customers may book
type DurationsEnabled struct {
	Thirty bool `json:"thirtyMinutes"`
	Sixty  bool `json:"sixtyMinutes"`
}

// IsEnabled reports whether the duration is turned on
func (d DurationsEnabled) IsEnabled(duration SlotDuration) bool {
	switch duration {
	case Duration30:
		return d.Thirty
	case Duration60:
		return d.Sixty
	default:
		return false
	}
}

// GlobalSettings is the singleton settings record.
type GlobalSettings struct {
	ID               int64
	Slots30          []SlotDescriptor
	Slots60          []SlotDescriptor
	MaxGuestsPerSlot int
	DurationsEnabled DurationsEnabled
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewDefaultGlobalSettings builds the record created on first access.
func NewDefaultGlobalSettings() *GlobalSettings {
	return &GlobalSettings{
		ID:               GlobalSettingsID,
		Slots30:          DefaultSlots(Duration30),
		Slots60:          DefaultSlots(Duration60),
		MaxGuestsPerSlot: DefaultMaxGuestsPerSlot,
		DurationsEnabled: DurationsEnabled{Thirty: true, Sixty: true},
	}
}

// SlotsFor returns the stored list for a duration, or the catalog default
// when nothing is stored.
func (s *GlobalSettings) SlotsFor(duration SlotDuration) []SlotDescriptor {
	var stored []SlotDescriptor
	switch duration {
	case Duration30:
		stored = s.Slots30
	case Duration60:
		stored = s.Slots60
	}
	if len(stored) == 0 {
		return DefaultSlots(duration)
	}
	out := make([]SlotDescriptor, len(stored))
	copy(out, stored)
	return out
}

// EffectiveMaxGuests falls back to the default for records with an invalid cap.
func (s *GlobalSettings) EffectiveMaxGuests() int {
	if s.MaxGuestsPerSlot < MinGuestsPerSlot || s.MaxGuestsPerSlot > MaxGuestsPerSlot {
		return DefaultMaxGuestsPerSlot
	}
	return s.MaxGuestsPerSlot
}

// BackfillEmpty fills empty slot lists with catalog defaults.
// Returns true if anything changed.
func (s *GlobalSettings) BackfillEmpty() bool {
	changed := false
	if len(s.Slots30) == 0 {
		s.Slots30 = DefaultSlots(Duration30)
		changed = true
	}
	if len(s.Slots60) == 0 {
		s.Slots60 = DefaultSlots(Duration60)
		changed = true
	}
	return changed
}

// DaySettings per-date closures. Absence of a record means no closures.
type DaySettings struct {
	Date             time.Time
	ClosedSlotValues []types.TimeString
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ClosedSet returns closures as a lookup set
func (d *DaySettings) ClosedSet() map[types.TimeString]struct{} {
	set := make(map[types.TimeString]struct{})
	if d == nil {
		return set
	}
	for _, v := range d.ClosedSlotValues {
		set[v] = struct{}{}
	}
	return set
}

// ApplyClosures composes stored slots with a day's closures and returns only
// enabled entries, preserving order.
func ApplyClosures(slots []SlotDescriptor, closed map[types.TimeString]struct{}) []SlotDescriptor {
	out := make([]SlotDescriptor, 0, len(slots))
	for _, s := range slots {
		if _, isClosed := closed[s.Value]; isClosed || !s.Enabled {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ContainsSlot reports whether value is in the list
func ContainsSlot(slots []SlotDescriptor, value types.TimeString) bool {
	for _, s := range slots {
		if s.Value == value {
			return true
		}
	}
	return false
}
