package settings

import "errors"

var (
	// ErrGlobalSettingsNotFound возвращается, когда глобальные настройки еще не созданы
	ErrGlobalSettingsNotFound = errors.New("settings.repository: global settings not found")

	// ErrGlobalSettingsExists возвращается, когда строка глобальных настроек уже создана конкурентно
	ErrGlobalSettingsExists = errors.New("settings.repository: global settings already exist")

	// ErrVersionConflict возвращается, когда настройки изменились после чтения
	ErrVersionConflict = errors.New("settings.repository: global settings version conflict")

	// ErrDaySettingsNotFound возвращается, когда для даты нет записи
	ErrDaySettingsNotFound = errors.New("settings.repository: day settings not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("settings.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("settings.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("settings.repository: failed to scan row")

	// ErrEncode возвращается при ошибке сериализации списка слотов
	ErrEncode = errors.New("settings.repository: failed to encode slots")
)
