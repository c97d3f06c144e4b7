package get_public_settings

import (
	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/settings/models"
)

// PublicSettingsResponse включенные слоты и лимиты для клиентов
type PublicSettingsResponse struct {
	TimeSlots30      []domain.SlotDescriptor `json:"timeSlots30"`
	TimeSlots60      []domain.SlotDescriptor `json:"timeSlots60"`
	MaxGuestsPerSlot int                     `json:"maxGuestsPerSlot"`
	DurationsEnabled domain.DurationsEnabled `json:"durationsEnabled"`
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(s *models.PublicSettings) *PublicSettingsResponse {
	return &PublicSettingsResponse{
		TimeSlots30:      s.Slots30,
		TimeSlots60:      s.Slots60,
		MaxGuestsPerSlot: s.MaxGuestsPerSlot,
		DurationsEnabled: s.DurationsEnabled,
	}
}
