package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	attachPaymentOrderHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/attach_payment_order"
	cancelReservationHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/cancel_reservation"
	clearDayClosuresHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/clear_day_closures"
	confirmPaymentHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/confirm_payment"
	createReservationHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/create_reservation"
	deleteReservationHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/delete_reservation"
	failPaymentHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/fail_payment"
	getAvailabilityHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/get_availability"
	getDayClosuresHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/get_day_closures"
	getEffectiveSlotsHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/get_effective_slots"
	getGlobalSettingsHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/get_global_settings"
	getPublicSettingsHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/get_public_settings"
	getReservationHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/get_reservation"
	listDayOverridesHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/list_day_overrides"
	listReservationsHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/list_reservations"
	reservationStatsHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/reservation_stats"
	setDayClosuresHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/set_day_closures"
	updateGlobalSettingsHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/update_global_settings"
	updateReservationHandler "github.com/m04kA/SMC-VenueBookingService/internal/api/handlers/update_reservation"
	"github.com/m04kA/SMC-VenueBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-VenueBookingService/internal/config"
	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	settingsCache "github.com/m04kA/SMC-VenueBookingService/internal/infra/cache/settings"
	reservationRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/reservation"
	settingsRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-VenueBookingService/internal/scheduler"
	availabilityService "github.com/m04kA/SMC-VenueBookingService/internal/service/availability"
	reservationsService "github.com/m04kA/SMC-VenueBookingService/internal/service/reservations"
	settingsService "github.com/m04kA/SMC-VenueBookingService/internal/service/settings"
	createReservationUC "github.com/m04kA/SMC-VenueBookingService/internal/usecase/create_reservation"
	expirePendingUC "github.com/m04kA/SMC-VenueBookingService/internal/usecase/expire_pending"
	"github.com/m04kA/SMC-VenueBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueBookingService/pkg/keylock"
	"github.com/m04kA/SMC-VenueBookingService/pkg/logger"
	"github.com/m04kA/SMC-VenueBookingService/pkg/metrics"
	"github.com/m04kA/SMC-VenueBookingService/pkg/txmanager"
)

// schedulerJobTimeout ограничение одного запуска фоновой задачи
const schedulerJobTimeout = 30 * time.Second

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-VenueBookingService...")
	log.Info("Configuration loaded from config.toml")

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load venue timezone %s: %v", cfg.Booking.Timezone, err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без коллектора обертка не пишет метрики, но по-прежнему передает транзакцию через контекст
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем репозитории
	settingsRepository := settingsRepo.NewRepository(wrappedDB)
	reservationRepository := reservationRepo.NewRepository(wrappedDB)

	// Кэш настроек в Redis (опционально)
	var cache settingsService.SettingsCache
	var closeRedis func() error
	if cfg.Cache.Enabled {
		redisClient, err := settingsCache.NewClient(cfg.Cache.RedisURL)
		if err != nil {
			log.Fatal("Failed to create redis client: %v", err)
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is not reachable, settings will be read from database until it recovers: %v", err)
		}
		cancel()

		cache = settingsCache.New(redisClient, cfg.Cache.TTL())
		closeRedis = redisClient.Close
		log.Info("Settings cache enabled (ttl=%s)", cfg.Cache.TTL())
	}

	// Инициализируем сервисы
	pricing := domain.Pricing{
		PerGuest30: cfg.Booking.PricePerGuest30,
		PerGuest60: cfg.Booking.PricePerGuest60,
	}
	slotLocker := keylock.New().WithWaitTimeout(time.Duration(cfg.Booking.LockWaitTimeout) * time.Second)

	settingsSvc := settingsService.NewService(settingsRepository, cache, metricsCollector, log)
	availabilitySvc := availabilityService.NewService(settingsSvc, reservationRepository, log)
	reservationsSvc := reservationsService.NewService(
		reservationRepository,
		availabilitySvc,
		slotLocker,
		txMgr,
		metricsCollector,
		pricing,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		availabilitySvc,
		slotLocker,
		txMgr,
		metricsCollector,
		log,
		createReservationUC.Options{
			Location: location,
			LeadTime: cfg.Booking.LeadTime(),
			Currency: cfg.Booking.Currency,
			Pricing:  pricing,
		},
	)

	// Ограничение частоты создания бронирований
	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		log.Info("Rate limit enabled for POST /reservations (rps=%.2f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// Фоновые задачи
	var sched *scheduler.Scheduler
	if cfg.Expiry.Enabled || rateLimiter != nil {
		sched, err = scheduler.New(log, schedulerJobTimeout)
		if err != nil {
			log.Fatal("Failed to create scheduler: %v", err)
		}
	}

	if cfg.Expiry.Enabled {
		expireUseCase, err := expirePendingUC.NewUseCase(
			reservationRepository,
			txMgr,
			metricsCollector,
			log,
			expirePendingUC.Options{
				PendingTTL: cfg.Expiry.PendingTTL(),
				BatchSize:  cfg.Expiry.BatchSize,
			},
		)
		if err != nil {
			log.Fatal("Failed to create expiry use case: %v", err)
		}

		err = sched.Every("expire-pending-reservations", cfg.Expiry.Interval(), func(ctx context.Context) error {
			_, err := expireUseCase.Execute(ctx)
			return err
		})
		if err != nil {
			log.Fatal("Failed to schedule expiry sweep: %v", err)
		}
		log.Info("Pending reservation expiry enabled (ttl=%s, interval=%s)", cfg.Expiry.PendingTTL(), cfg.Expiry.Interval())
	}

	if rateLimiter != nil {
		err = sched.Every("ratelimit-cleanup", time.Minute, func(ctx context.Context) error {
			if removed := rateLimiter.Cleanup(); removed > 0 {
				log.Debug("Rate limiter: forgot %d idle clients", removed)
			}
			return nil
		})
		if err != nil {
			log.Fatal("Failed to schedule rate limiter cleanup: %v", err)
		}
	}

	if sched != nil {
		sched.Start()
	}

	// Инициализируем handlers
	getEffectiveSlots := getEffectiveSlotsHandler.NewHandler(availabilitySvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	getPublicSettings := getPublicSettingsHandler.NewHandler(settingsSvc, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationsSvc, log)
	attachPaymentOrder := attachPaymentOrderHandler.NewHandler(reservationsSvc, log)
	confirmPayment := confirmPaymentHandler.NewHandler(reservationsSvc, log)
	failPayment := failPaymentHandler.NewHandler(reservationsSvc, log)
	getGlobalSettings := getGlobalSettingsHandler.NewHandler(settingsSvc, log)
	updateGlobalSettings := updateGlobalSettingsHandler.NewHandler(settingsSvc, log)
	listDayOverrides := listDayOverridesHandler.NewHandler(settingsSvc, log)
	getDayClosures := getDayClosuresHandler.NewHandler(settingsSvc, log)
	setDayClosures := setDayClosuresHandler.NewHandler(settingsSvc, log)
	clearDayClosures := clearDayClosuresHandler.NewHandler(settingsSvc, log)
	listReservations := listReservationsHandler.NewHandler(reservationsSvc, log)
	reservationStats := reservationStatsHandler.NewHandler(reservationsSvc, log)
	updateReservation := updateReservationHandler.NewHandler(reservationsSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationsSvc, log)
	deleteReservation := deleteReservationHandler.NewHandler(reservationsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Эффективные слоты и занятость на дату
	api.HandleFunc("/slots", getEffectiveSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Включенные слоты и лимиты
	api.HandleFunc("/settings", getPublicSettings.Handle).Methods(http.MethodGet)

	// Создание бронирования
	var createHandler http.Handler = http.HandlerFunc(createReservation.Handle)
	if rateLimiter != nil {
		createHandler = rateLimiter.Limit(createHandler)
	}
	api.Handle("/reservations", createHandler).Methods(http.MethodPost)

	// Получение бронирования по ID
	api.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Платежный сервис ---
	protected.HandleFunc("/reservations/{reservationId}/payment/order", attachPaymentOrder.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}/payment/confirm", confirmPayment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}/payment/fail", failPayment.Handle).Methods(http.MethodPost)

	// --- Администрирование ---
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminOnly(cfg.Auth.AdminUserIDs))

	// Глобальные настройки
	admin.HandleFunc("/settings", getGlobalSettings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/settings", updateGlobalSettings.Handle).Methods(http.MethodPatch)

	// Закрытия слотов по дням
	admin.HandleFunc("/days", listDayOverrides.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/days/{date}/closures", getDayClosures.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/days/{date}/closures", setDayClosures.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/days/{date}/closures", clearDayClosures.Handle).Methods(http.MethodDelete)

	// Бронирования
	admin.HandleFunc("/reservations", listReservations.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/reservations/stats", reservationStats.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/reservations/{reservationId}", updateReservation.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/reservations/{reservationId}", deleteReservation.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем фоновые задачи
	if sched != nil {
		if err := sched.Shutdown(); err != nil {
			log.Error("Scheduler shutdown failed: %v", err)
		}
		log.Info("Scheduler stopped")
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	if closeRedis != nil {
		if err := closeRedis(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}
