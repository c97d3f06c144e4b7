package set_day_closures

// SetDayClosuresRequest HTTP request model
// Пустой список оставляет запись даты без закрытий
type SetDayClosuresRequest struct {
	ClosedSlotValues []string `json:"closedSlotValues" validate:"max=96,dive,max=16"`
}
