package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const timeLayout = "15:04"

// ErrInvalidTimeString возвращается, когда строка не соответствует формату HH:MM
var ErrInvalidTimeString = errors.New("invalid time string format")

// TimeString время суток в формате HH:MM (24h)
// Используется как токен слота и хранится в БД как VARCHAR(5)
type TimeString string

// NewTimeString создает TimeString из часов и минут
func NewTimeString(hour, minute int) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", hour, minute))
}

// NewTimeStringFromString разбирает и нормализует строку HH:MM
// "9:05" нормализуется в "09:05"
func NewTimeStringFromString(s string) (TimeString, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return NewTimeString(t.Hour(), t.Minute()), nil
}

// Validate проверяет формат
func (ts TimeString) Validate() error {
	_, err := NewTimeStringFromString(string(ts))
	return err
}

// IsZero true для пустого значения
func (ts TimeString) IsZero() bool {
	return ts == ""
}

func (ts TimeString) String() string {
	return string(ts)
}

// Clock возвращает часы и минуты
func (ts TimeString) Clock() (hour, minute int, err error) {
	t, err := time.Parse(timeLayout, string(ts))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(ts))
	}
	return t.Hour(), t.Minute(), nil
}

// Minutes возвращает количество минут от начала суток
func (ts TimeString) Minutes() (int, error) {
	h, m, err := ts.Clock()
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

// AddMinutes сдвигает время, переходя через полночь по модулю суток
func (ts TimeString) AddMinutes(minutes int) (TimeString, error) {
	total, err := ts.Minutes()
	if err != nil {
		return "", err
	}
	total = ((total+minutes)%(24*60) + 24*60) % (24 * 60)
	return NewTimeString(total/60, total%60), nil
}

// IsBefore сравнивает два времени в пределах суток
func (ts TimeString) IsBefore(other TimeString) bool {
	a, errA := ts.Minutes()
	b, errB := other.Minutes()
	return errA == nil && errB == nil && a < b
}

// IsAfter сравнивает два времени в пределах суток
func (ts TimeString) IsAfter(other TimeString) bool {
	return other.IsBefore(ts)
}

// On возвращает момент времени в указанную дату и часовой пояс
func (ts TimeString) On(date time.Time, loc *time.Location) (time.Time, error) {
	h, m, err := ts.Clock()
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, loc), nil
}

// Value реализует driver.Valuer
func (ts TimeString) Value() (driver.Value, error) {
	return string(ts), nil
}

// Scan реализует sql.Scanner
// Поддерживает VARCHAR ("14:00") и TIME ("14:00:00")
func (ts *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*ts = ""
		return nil
	case string:
		return ts.scanString(v)
	case []byte:
		return ts.scanString(string(v))
	case time.Time:
		*ts = NewTimeString(v.Hour(), v.Minute())
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeString, src)
	}
}

func (ts *TimeString) scanString(s string) error {
	if len(s) >= 8 {
		s = s[:5]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
