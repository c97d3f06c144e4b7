package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	Name            string  `validate:"required,max=200"`
	Email           string  `validate:"required,email,max=254"`
	Phone           string  `validate:"required,max=32"`
	Date            string  `validate:"required"`      // YYYY-MM-DD
	Time            string  `validate:"required"`      // HH:MM
	DurationMinutes int     `validate:"oneof=30 60"`   // длительность слота
	GuestCount      int     `validate:"min=1,max=500"` // количество гостей
	SpecialRequests *string `validate:"omitempty,max=1000"`
}

// Response созданное бронирование и его стоимость
type Response struct {
	Reservation     *domain.Reservation
	EstimatedAmount int64 // pricePerGuest(duration) * guestCount
	Currency        string
}

// Options параметры бронирования из конфигурации
type Options struct {
	Location *time.Location // часовой пояс площадки
	LeadTime time.Duration  // минимальное время до начала слота
	Currency string
	Pricing  domain.Pricing
}

// DefaultOptions значения по умолчанию
func DefaultOptions() Options {
	return Options{
		Location: time.UTC,
		LeadTime: domain.DefaultLeadTimeMinutes * time.Minute,
		Currency: domain.DefaultCurrency,
		Pricing:  domain.DefaultPricing(),
	}
}
