package availability

import (
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// EffectiveSlots включенные слоты даты после применения закрытий
type EffectiveSlots struct {
	Date             time.Time
	Duration         domain.SlotDuration
	Slots            []domain.SlotDescriptor
	MaxGuestsPerSlot int
	DurationsEnabled domain.DurationsEnabled
}

// Contains проверяет, что время входит в эффективный набор
func (e *EffectiveSlots) Contains(value types.TimeString) bool {
	return domain.ContainsSlot(e.Slots, value)
}

// Availability занятость каждого эффективного слота даты
type Availability struct {
	Date             time.Time
	Duration         domain.SlotDuration
	Slots            []domain.SlotAvailability
	TimeSlots        []domain.SlotDescriptor
	MaxGuestsPerSlot int
	DurationsEnabled domain.DurationsEnabled
}
