package pkgroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

const (
	// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
	DefaultMaxGoroutine int = 10
	// MaxKeptErrors caps how many job errors Wait reports verbatim.
	MaxKeptErrors = 16
)

// Manager runs background scan jobs with a fixed concurrency limit.
//
// A job owns its context: once admitted it always runs, even if that context
// is canceled before the goroutine starts, so it can release what the caller
// handed over. Job errors are counted and the first MaxKeptErrors are kept.
type Manager struct {
	mu     sync.Mutex
	errs   []error
	failed int
	wg     sync.WaitGroup
	sema   chan struct{}
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}

	return &Manager{
		sema: make(chan struct{}, maxGoroutine),
	}
}

// Go runs f in a goroutine, blocking until a slot is free or pCtx is done.
func (g *Manager) Go(pCtx context.Context, f func(ctx context.Context) error) {
	select {
	case g.sema <- struct{}{}:
	case <-pCtx.Done():
		slog.WarnContext(pCtx, "goroutine canceled before start", "because", pCtx.Err())
		return
	}

	g.run(pCtx, f)
}

// TryGo runs f only when a slot is free right now and reports whether it did.
// Callers use it to refuse work instead of queueing behind a full pool.
func (g *Manager) TryGo(pCtx context.Context, f func(ctx context.Context) error) bool {
	if pCtx.Err() != nil {
		return false
	}

	select {
	case g.sema <- struct{}{}:
	default:
		return false
	}

	g.run(pCtx, f)
	return true
}

// Running returns the number of jobs currently holding a slot.
func (g *Manager) Running() int {
	return len(g.sema)
}

// Capacity returns the concurrency limit.
func (g *Manager) Capacity() int {
	return cap(g.sema)
}

// Failed returns how many jobs have returned an error so far.
func (g *Manager) Failed() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.failed
}

func (g *Manager) run(pCtx context.Context, f func(ctx context.Context) error) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			<-g.sema

			if rvr := recover(); rvr != nil {
				slog.ErrorContext(pCtx, "panic occurred in goroutine", "panic", rvr, "stack", string(debug.Stack()))
			}
		}()

		if err := f(pCtx); err != nil {
			g.record(err)
		}
	}()
}

func (g *Manager) record(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.failed++
	if len(g.errs) < MaxKeptErrors {
		g.errs = append(g.errs, err)
	}
}

// Wait blocks until all scheduled jobs finish and returns the kept errors,
// plus a count of any that were not kept.
func (g *Manager) Wait() error {
	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	errs := g.errs
	if dropped := g.failed - len(g.errs); dropped > 0 {
		errs = append(errs[:len(errs):len(errs)], fmt.Errorf("%d more job errors not kept", dropped))
	}

	return errors.Join(errs...)
}
