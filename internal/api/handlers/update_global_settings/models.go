package update_global_settings

import (
	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-VenueBookingService/internal/service/settings/models"
)

var validate = validator.New()

// SlotRequest слот в теле запроса
type SlotRequest struct {
	Value   string `json:"value" validate:"max=16"`
	Label   string `json:"label" validate:"max=100"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// DurationsEnabledRequest флаги длительностей
type DurationsEnabledRequest struct {
	ThirtyMinutes *bool `json:"thirtyMinutes,omitempty"`
	SixtyMinutes  *bool `json:"sixtyMinutes,omitempty"`
}

// UpdateGlobalSettingsRequest HTTP request model
// Отсутствующее поле не меняется; список слотов заменяется целиком
type UpdateGlobalSettingsRequest struct {
	TimeSlots30      *[]SlotRequest           `json:"timeSlots30,omitempty" validate:"omitempty,max=96,dive"`
	TimeSlots60      *[]SlotRequest           `json:"timeSlots60,omitempty" validate:"omitempty,max=48,dive"`
	MaxGuestsPerSlot *float64                 `json:"maxGuestsPerSlot,omitempty"`
	DurationsEnabled *DurationsEnabledRequest `json:"durationsEnabled,omitempty"`
}

// Validate проверяет размеры списков и меток
func (r *UpdateGlobalSettingsRequest) Validate() error {
	return validate.Struct(r)
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateGlobalSettingsRequest) ToServiceRequest() *models.UpdateGlobalSettingsRequest {
	req := &models.UpdateGlobalSettingsRequest{
		Slots30:          toSlotInputs(r.TimeSlots30),
		Slots60:          toSlotInputs(r.TimeSlots60),
		MaxGuestsPerSlot: r.MaxGuestsPerSlot,
	}

	if r.DurationsEnabled != nil {
		req.DurationsEnabled = &models.DurationsPatch{
			ThirtyMinutes: r.DurationsEnabled.ThirtyMinutes,
			SixtyMinutes:  r.DurationsEnabled.SixtyMinutes,
		}
	}

	return req
}

func toSlotInputs(in *[]SlotRequest) *[]models.SlotInput {
	if in == nil {
		return nil
	}
	out := make([]models.SlotInput, 0, len(*in))
	for _, s := range *in {
		out = append(out, models.SlotInput{
			Value:   s.Value,
			Label:   s.Label,
			Enabled: s.Enabled,
		})
	}
	return &out
}
