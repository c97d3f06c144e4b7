package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// DefaultDurationMinutes длительность, если параметр duration не передан
const DefaultDurationMinutes = 60

// ReservationIDParam имя path параметра с id бронирования
const ReservationIDParam = "reservationId"

// DateParam имя path параметра с датой
const DateParam = "date"

// PathUUID разбирает path параметр как UUID
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw, ok := mux.Vars(r)[name]
	if !ok || raw == "" {
		return uuid.Nil, fmt.Errorf("missing path parameter %q", name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("path parameter %q: %w", name, err)
	}
	return id, nil
}

// PathString возвращает path параметр как есть
func PathString(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

// QueryString возвращает nil, если параметр пуст
func QueryString(r *http.Request, name string) *string {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	return &v
}

// QueryDuration разбирает параметр duration в минутах, по умолчанию 60
func QueryDuration(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("duration")
	if raw == "" {
		return DefaultDurationMinutes, nil
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("duration %q: %w", raw, err)
	}
	return minutes, nil
}
