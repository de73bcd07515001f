// Package goroutine runs detached background work with a concurrency cap.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine = 100

// ErrClosed is returned by Go after Wait has been called.
var ErrClosed = errors.New("goroutine manager is closed")

// ErrSaturated is returned by Go when every slot is busy.
var ErrSaturated = errors.New("goroutine limit reached")

// Manager runs tasks detached from the caller's lifetime. Task errors and
// panics are logged, never returned to the caller that scheduled them.
type Manager struct {
	sema    chan struct{}
	timeout time.Duration
	wg      sync.WaitGroup

	stateMu sync.RWMutex
	closed  bool
}

// NewManager caps concurrent tasks at max. A positive timeout bounds each task.
func NewManager(max int, timeout time.Duration) *Manager {
	if max < 1 {
		max = DefaultMaxGoroutine
	}
	return &Manager{
		sema:    make(chan struct{}, max),
		timeout: timeout,
	}
}

// Go schedules f without blocking. The task context keeps the values of
// parent but is not cancelled when parent is, so request-scoped work can
// outlive the request that started it.
func (m *Manager) Go(parent context.Context, name string, f func(ctx context.Context) error) error {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	if m.closed {
		slog.WarnContext(parent, "goroutine manager closed, task dropped", "task", name)
		return ErrClosed
	}

	select {
	case m.sema <- struct{}{}:
	default:
		slog.WarnContext(parent, "goroutine limit reached, task dropped", "task", name)
		return ErrSaturated
	}

	ctx := context.WithoutCancel(parent)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer func() { <-m.sema }()
		defer func() {
			if rvr := recover(); rvr != nil {
				slog.ErrorContext(ctx, "panic in background task", "task", name, "panic", rvr, "stack", string(debug.Stack()))
			}
		}()

		if m.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, m.timeout)
			defer cancel()
		}
		if err := f(ctx); err != nil {
			slog.ErrorContext(ctx, "background task failed", "task", name, "err", err)
		}
	}()
	return nil
}

// Wait stops accepting new tasks and blocks until scheduled ones finish.
func (m *Manager) Wait() {
	m.stateMu.Lock()
	m.closed = true
	m.stateMu.Unlock()
	m.wg.Wait()
}
