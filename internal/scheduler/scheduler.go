package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

var (
	// ErrInvalidInterval интервал задачи должен быть положительным
	ErrInvalidInterval = errors.New("scheduler: interval must be positive")

	// ErrScheduler ошибка планировщика
	ErrScheduler = errors.New("scheduler: internal error")
)

// Task периодическая задача
type Task func(ctx context.Context) error

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler фоновые периодические задачи на gocron
// Один экземпляр задачи не запускается повторно, пока не завершится предыдущий
type Scheduler struct {
	inner   gocron.Scheduler
	logger  Logger
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

// New создает планировщик; timeout ограничивает один запуск задачи (0 - без ограничения)
func New(logger Logger, timeout time.Duration) (*Scheduler, error) {
	inner, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScheduler, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		inner:   inner,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		timeout: timeout,
	}, nil
}

// Every регистрирует задачу с фиксированным интервалом
func (s *Scheduler) Every(name string, interval time.Duration, task Task) error {
	if interval <= 0 {
		return fmt.Errorf("%w: job=%s, interval=%s", ErrInvalidInterval, name, interval)
	}

	job, err := s.inner.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.run, name, task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to register job=%s: %v", ErrScheduler, name, err)
	}

	s.logger.Info("Scheduler: job=%s id=%s registered, interval=%s", name, job.ID(), interval)
	return nil
}

// Start запускает планировщик
func (s *Scheduler) Start() {
	s.inner.Start()
	s.logger.Info("Scheduler: started with %d job(s)", len(s.inner.Jobs()))
}

// Shutdown останавливает планировщик и отменяет выполняющиеся задачи
func (s *Scheduler) Shutdown() error {
	s.cancel()
	if err := s.inner.Shutdown(); err != nil {
		return fmt.Errorf("%w: shutdown: %v", ErrScheduler, err)
	}
	s.logger.Info("Scheduler: stopped")
	return nil
}

func (s *Scheduler) run(name string, task Task) {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	if err := task(ctx); err != nil {
		s.logger.Error("Scheduler: job=%s failed after %s: %v", name, time.Since(started), err)
		return
	}
}
