package models

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// SlotInput слот из административного запроса
type SlotInput struct {
	Value   string
	Label   string
	Enabled *bool // nil = true
}

// DurationsPatch флаги длительностей; nil флаг трактуется как true
type DurationsPatch struct {
	ThirtyMinutes *bool
	SixtyMinutes  *bool
}

// UpdateGlobalSettingsRequest частичное обновление глобальных настроек
// nil поле = не изменять
type UpdateGlobalSettingsRequest struct {
	Slots30          *[]SlotInput
	Slots60          *[]SlotInput
	MaxGuestsPerSlot *float64
	DurationsEnabled *DurationsPatch
}

// ApplyResult что было проигнорировано при применении патча
type ApplyResult struct {
	MaxGuestsIgnored bool
	Slots30Defaulted bool
	Slots60Defaulted bool
}

// ApplyTo применяет патч к настройкам
//
// Списки слотов заменяются целиком после очистки; пустой результат заменяется
// каталогом по умолчанию. MaxGuestsPerSlot принимается только в диапазоне
// [1, 500] с округлением, иначе игнорируется
func (r *UpdateGlobalSettingsRequest) ApplyTo(s *domain.GlobalSettings) ApplyResult {
	var result ApplyResult

	if r.Slots30 != nil {
		s.Slots30 = SanitizeSlots(*r.Slots30)
		if len(s.Slots30) == 0 {
			s.Slots30 = domain.DefaultSlots(domain.Duration30)
			result.Slots30Defaulted = true
		}
	}

	if r.Slots60 != nil {
		s.Slots60 = SanitizeSlots(*r.Slots60)
		if len(s.Slots60) == 0 {
			s.Slots60 = domain.DefaultSlots(domain.Duration60)
			result.Slots60Defaulted = true
		}
	}

	if r.MaxGuestsPerSlot != nil {
		v := *r.MaxGuestsPerSlot
		if v >= domain.MinGuestsPerSlot && v <= domain.MaxGuestsPerSlot {
			s.MaxGuestsPerSlot = int(v + 0.5)
		} else {
			result.MaxGuestsIgnored = true
		}
	}

	if r.DurationsEnabled != nil {
		s.DurationsEnabled = domain.DurationsEnabled{
			Thirty: boolOrTrue(r.DurationsEnabled.ThirtyMinutes),
			Sixty:  boolOrTrue(r.DurationsEnabled.SixtyMinutes),
		}
	}

	return result
}

// SanitizeSlots обрезает пробелы, отбрасывает записи с пустым или
// некорректным временем и повторы. Пустая метка заменяется значением
func SanitizeSlots(in []SlotInput) []domain.SlotDescriptor {
	out := make([]domain.SlotDescriptor, 0, len(in))
	seen := make(map[types.TimeString]struct{}, len(in))

	for _, item := range in {
		value := strings.TrimSpace(item.Value)
		if value == "" {
			continue
		}
		ts, err := types.NewTimeStringFromString(value)
		if err != nil {
			continue
		}
		if _, dup := seen[ts]; dup {
			continue
		}
		seen[ts] = struct{}{}

		label := strings.TrimSpace(item.Label)
		if label == "" {
			label = ts.String()
		}

		out = append(out, domain.SlotDescriptor{
			Value:   ts,
			Label:   label,
			Enabled: boolOrTrue(item.Enabled),
		})
	}

	return out
}

// SanitizeClosures оставляет непустые корректные HH:MM значения без повторов
func SanitizeClosures(values []string) []types.TimeString {
	out := make([]types.TimeString, 0, len(values))
	seen := make(map[types.TimeString]struct{}, len(values))

	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		ts, err := types.NewTimeStringFromString(v)
		if err != nil {
			continue
		}
		if _, dup := seen[ts]; dup {
			continue
		}
		seen[ts] = struct{}{}
		out = append(out, ts)
	}

	return out
}

// PublicSettings настройки для клиентов: только включенные слоты
type PublicSettings struct {
	Slots30          []domain.SlotDescriptor
	Slots60          []domain.SlotDescriptor
	MaxGuestsPerSlot int
	DurationsEnabled domain.DurationsEnabled
}

// ToPublicSettings оставляет только включенные слоты
func ToPublicSettings(s *domain.GlobalSettings) *PublicSettings {
	return &PublicSettings{
		Slots30:          domain.ApplyClosures(s.SlotsFor(domain.Duration30), nil),
		Slots60:          domain.ApplyClosures(s.SlotsFor(domain.Duration60), nil),
		MaxGuestsPerSlot: s.EffectiveMaxGuests(),
		DurationsEnabled: s.DurationsEnabled,
	}
}

// GlobalSettingsResponse ответ с глобальными настройками для администратора
type GlobalSettingsResponse struct {
	TimeSlots30      []domain.SlotDescriptor `json:"timeSlots30"`
	TimeSlots60      []domain.SlotDescriptor `json:"timeSlots60"`
	MaxGuestsPerSlot int                     `json:"maxGuestsPerSlot"`
	DurationsEnabled domain.DurationsEnabled `json:"durationsEnabled"`
	Version          int64                   `json:"version"`
	UpdatedAt        time.Time               `json:"updatedAt"`
}

// FromDomainGlobalSettings конвертирует domain модель в DTO
func FromDomainGlobalSettings(s *domain.GlobalSettings) *GlobalSettingsResponse {
	return &GlobalSettingsResponse{
		TimeSlots30:      s.SlotsFor(domain.Duration30),
		TimeSlots60:      s.SlotsFor(domain.Duration60),
		MaxGuestsPerSlot: s.EffectiveMaxGuests(),
		DurationsEnabled: s.DurationsEnabled,
		Version:          s.Version,
		UpdatedAt:        s.UpdatedAt,
	}
}

// DaySettingsResponse закрытые слоты на дату
type DaySettingsResponse struct {
	Date             string   `json:"date"`
	ClosedSlotValues []string `json:"closedSlotValues"`
}

// FromDomainDaySettings конвертирует domain модель в DTO
func FromDomainDaySettings(date time.Time, closed []types.TimeString) *DaySettingsResponse {
	values := make([]string, 0, len(closed))
	for _, v := range closed {
		values = append(values, v.String())
	}
	return &DaySettingsResponse{
		Date:             domain.DateKey(date),
		ClosedSlotValues: values,
	}
}

// FromDomainDaySettingsList конвертирует список записей по дням
func FromDomainDaySettingsList(days []*domain.DaySettings) []DaySettingsResponse {
	out := make([]DaySettingsResponse, 0, len(days))
	for _, d := range days {
		out = append(out, *FromDomainDaySettings(d.Date, d.ClosedSlotValues))
	}
	return out
}

func boolOrTrue(b *bool) bool {
	if b == nil {
		return true
	}
	return *b
}
