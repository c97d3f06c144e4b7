package settings

import "errors"

var (
	// ErrCacheMiss возвращается, когда снимка настроек нет в кэше
	ErrCacheMiss = errors.New("settings.cache: miss")

	// ErrCache возвращается при ошибках Redis или декодирования снимка
	ErrCache = errors.New("settings.cache: failure")
)
