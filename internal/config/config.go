package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig некорректная конфигурация
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Auth      AuthConfig      `toml:"auth"`
	Booking   BookingConfig   `toml:"booking"`
	Cache     CacheConfig     `toml:"cache"`
	Expiry    ExpiryConfig    `toml:"expiry"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
}

// ServerConfig настройки HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AuthConfig доступ к административным маршрутам по заголовку X-User-ID
// Пустой список - допускается любой пользователь с заголовком
type AuthConfig struct {
	AdminUserIDs []int64 `toml:"admin_user_ids"`
}

// BookingConfig правила бронирования
type BookingConfig struct {
	Timezone        string `toml:"timezone"`
	LeadTimeMinutes int    `toml:"lead_time_minutes"`
	Currency        string `toml:"currency"`
	PricePerGuest30 int64  `toml:"price_per_guest_30"`
	PricePerGuest60 int64  `toml:"price_per_guest_60"`
	LockWaitTimeout int    `toml:"lock_wait_timeout"` // секунды ожидания блокировки слота
}

// Location часовой пояс площадки
func (c BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// LeadTime минимальное время до начала слота
func (c BookingConfig) LeadTime() time.Duration {
	return time.Duration(c.LeadTimeMinutes) * time.Minute
}

// CacheConfig кеш глобальных настроек в Redis
type CacheConfig struct {
	Enabled    bool   `toml:"enabled"`
	RedisURL   string `toml:"redis_url"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// TTL время жизни снимка настроек
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// ExpiryConfig фоновая отмена неоплаченных pending бронирований
type ExpiryConfig struct {
	Enabled           bool   `toml:"enabled"`
	PendingTTLMinutes int    `toml:"pending_ttl_minutes"`
	IntervalSeconds   int    `toml:"interval_seconds"`
	BatchSize         uint64 `toml:"batch_size"`
}

// PendingTTL сколько живет неоплаченное бронирование
func (c ExpiryConfig) PendingTTL() time.Duration {
	return time.Duration(c.PendingTTLMinutes) * time.Minute
}

// Interval период запуска очистки
func (c ExpiryConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// RateLimitConfig ограничение публичных запросов на создание бронирований
type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
}

// Load читает TOML файл, переопределяет значения из окружения (.env) и валидирует результат
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	// .env не обязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default значения по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "venue_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "venue-booking-service",
		},
		Booking: BookingConfig{
			Timezone:        "Asia/Kolkata",
			LeadTimeMinutes: 60,
			Currency:        "inr",
			PricePerGuest30: 1500,
			PricePerGuest60: 1500,
			LockWaitTimeout: 5,
		},
		Cache: CacheConfig{
			Enabled:    false,
			RedisURL:   "redis://localhost:6379/0",
			TTLSeconds: 30,
		},
		Expiry: ExpiryConfig{
			Enabled:           false,
			PendingTTLMinutes: 30,
			IntervalSeconds:   60,
			BatchSize:         100,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     5,
			Burst:   10,
		},
	}
}

// applyEnv переопределяет секреты и адреса из переменных окружения
func (c *Config) applyEnv() error {
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: HTTP_PORT=%q: %v", ErrInvalidConfig, v, err)
		}
		c.Server.HTTPPort = port
	}
	if v := os.Getenv("PRICE_PER_GUEST"); v != "" {
		price, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: PRICE_PER_GUEST=%q: %v", ErrInvalidConfig, v, err)
		}
		c.Booking.PricePerGuest30 = price
		c.Booking.PricePerGuest60 = price
	}
	return nil
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, fmt.Sprintf("server.http_port %d out of range", c.Server.HTTPPort))
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		problems = append(problems, "database.host and database.dbname are required")
	}
	if _, err := c.Booking.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("booking.timezone %q: %v", c.Booking.Timezone, err))
	}
	if c.Booking.LeadTimeMinutes < 0 {
		problems = append(problems, "booking.lead_time_minutes must not be negative")
	}
	if c.Booking.PricePerGuest30 <= 0 || c.Booking.PricePerGuest60 <= 0 {
		problems = append(problems, "booking.price_per_guest_30 and price_per_guest_60 must be positive")
	}
	if strings.TrimSpace(c.Booking.Currency) == "" {
		problems = append(problems, "booking.currency is required")
	}
	if c.Cache.Enabled {
		if c.Cache.RedisURL == "" {
			problems = append(problems, "cache.redis_url is required when cache is enabled")
		}
		if c.Cache.TTLSeconds <= 0 {
			problems = append(problems, "cache.ttl_seconds must be positive")
		}
	}
	if c.Expiry.Enabled {
		if c.Expiry.PendingTTLMinutes <= 0 {
			problems = append(problems, "expiry.pending_ttl_minutes must be positive")
		}
		if c.Expiry.IntervalSeconds <= 0 {
			problems = append(problems, "expiry.interval_seconds must be positive")
		}
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		problems = append(problems, "ratelimit.rps and ratelimit.burst must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
