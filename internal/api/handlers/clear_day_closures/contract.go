package clear_day_closures

import "context"

type SettingsService interface {
	ClearDayClosures(ctx context.Context, date string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
