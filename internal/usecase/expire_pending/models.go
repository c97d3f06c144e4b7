package expire_pending

import "time"

// DefaultBatchSize максимальное количество бронирований за один запуск
const DefaultBatchSize = 100

// Options параметры очистки
type Options struct {
	PendingTTL time.Duration // сколько живет неоплаченное pending бронирование
	BatchSize  uint64
}

// Result итог запуска
type Result struct {
	Expired int
	Skipped int // изменились между выборкой и блокировкой строки
	Failed  int
}
