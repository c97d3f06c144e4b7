package domain

// Default settings values
const (
	DefaultMaxGuestsPerSlot = 24
	DefaultLeadTimeMinutes  = 60
	DefaultCurrency         = "inr"
	DefaultPricePerGuest    = 1500
)

// Business validation constants
const (
	MinGuestsPerSlot        = 1
	MaxGuestsPerSlot        = 500
	MaxNameLength           = 200
	MaxPhoneLength          = 32
	MaxSpecialRequestLength = 1000
)

// GlobalSettingsID fixed primary key of the singleton settings row
const GlobalSettingsID int64 = 1

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// CapacityStatuses statuses whose guests count toward slot capacity
var CapacityStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}
