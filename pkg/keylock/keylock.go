package keylock

import (
	"context"
	"sync"
	"time"
)

// KeyLock взаимное исключение по строковому ключу
// Разные ключи не блокируют друг друга; записи удаляются, когда ключ никем не занят
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*entry
	wait  time.Duration
}

type entry struct {
	ch   chan struct{}
	refs int
}

// New создает KeyLock
func New() *KeyLock {
	return &KeyLock{locks: make(map[string]*entry)}
}

// WithWaitTimeout ограничивает ожидание захвата ключа; 0 - ждать до отмены контекста
func (l *KeyLock) WithWaitTimeout(d time.Duration) *KeyLock {
	l.wait = d
	return l
}

// Lock захватывает ключ и возвращает функцию освобождения
// Возвращает ошибку контекста, если захват не удался до его отмены
func (l *KeyLock) Lock(ctx context.Context, key string) (func(), error) {
	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.release(key, e)
		})
	}, nil
}

// Len количество ключей, которые сейчас заняты или ожидаются
func (l *KeyLock) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func (l *KeyLock) release(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}
