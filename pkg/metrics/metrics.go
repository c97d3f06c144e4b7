package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик сервиса
// Все методы записи безопасны для nil-получателя: при выключенных метриках
// в компоненты передается nil и запись просто пропускается
type Metrics struct {
	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// База данных
	DBQueriesTotal     *prometheus.CounterVec
	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec

	// Бронирования
	ReservationsCreated    *prometheus.CounterVec
	ReservationsRejected   *prometheus.CounterVec
	ReservationTransitions *prometheus.CounterVec
	ReservationsExpired    *prometheus.CounterVec

	// Кэш настроек
	SettingsCache *prometheus.CounterVec

	serviceName string
}

// New регистрирует метрики в реестре по умолчанию
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry регистрирует метрики в указанном реестре
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),
		HTTPRequestsInFlight: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests being served",
		}, []string{"service"}),

		DBQueriesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries",
		}, []string{"service", "operation", "status"}),
		DBQueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),
		DBOpenConnections: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of open database connections",
		}, []string{"service"}),
		DBInUseConnections: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of database connections in use",
		}, []string{"service"}),
		DBIdleConnections: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle database connections",
		}, []string{"service"}),
		DBWaitCount: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		ReservationsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reservations_created_total",
			Help: "Total number of created reservations",
		}, []string{"service", "duration"}),
		ReservationsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reservations_rejected_total",
			Help: "Total number of rejected reservation attempts by reason",
		}, []string{"service", "reason"}),
		ReservationTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reservation_transitions_total",
			Help: "Total number of reservation status transitions",
		}, []string{"service", "from", "to"}),
		ReservationsExpired: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reservations_expired_total",
			Help: "Total number of pending reservations cancelled by the expiry sweep",
		}, []string{"service"}),

		SettingsCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "settings_cache_total",
			Help: "Settings cache lookups by result",
		}, []string{"service", "result"}),

		serviceName: serviceName,
	}
}

// ServiceName имя сервиса, используемое в label service
func (m *Metrics) ServiceName() string {
	if m == nil {
		return ""
	}
	return m.serviceName
}

// ReservationCreated учитывает созданное бронирование
func (m *Metrics) ReservationCreated(durationMinutes int) {
	if m == nil {
		return
	}
	m.ReservationsCreated.WithLabelValues(m.serviceName, strconv.Itoa(durationMinutes)).Inc()
}

// ReservationRejected учитывает отклоненную попытку бронирования
func (m *Metrics) ReservationRejected(reason string) {
	if m == nil {
		return
	}
	m.ReservationsRejected.WithLabelValues(m.serviceName, reason).Inc()
}

// ReservationTransition учитывает смену статуса бронирования
func (m *Metrics) ReservationTransition(from, to string) {
	if m == nil {
		return
	}
	m.ReservationTransitions.WithLabelValues(m.serviceName, from, to).Inc()
}

// ReservationExpired учитывает бронирование, отмененное по таймауту
func (m *Metrics) ReservationExpired() {
	if m == nil {
		return
	}
	m.ReservationsExpired.WithLabelValues(m.serviceName).Inc()
}

// SettingsCacheResult учитывает результат обращения к кэшу настроек (hit/miss/error)
func (m *Metrics) SettingsCacheResult(result string) {
	if m == nil {
		return
	}
	m.SettingsCache.WithLabelValues(m.serviceName, result).Inc()
}
