// Stoppable/Startable context with attached workers

package scontext

import (
	"context"
	"errors"
	"sync"
)

// StartStopContext runs a group of workers under one cancellable context.
// Safe for concurrent use.
type StartStopContext struct {
	lock           sync.Mutex
	parentCtx, ctx context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
}

var (
	ErrRunning       = errors.New("already running")
	ErrStopped       = errors.New("not running")
	ErrParentStopped = errors.New("parent context stopped")
)

func New(ctx context.Context) *StartStopContext {
	return &StartStopContext{
		parentCtx: ctx,
	}
}

// Return parent context if not started and cancellable context if Start was
// previously called and was not cancelled using Stop.
func (sc *StartStopContext) Context() context.Context {
	sc.lock.Lock()
	defer sc.lock.Unlock()

	if sc.cancel == nil {
		return sc.parentCtx
	}
	return sc.ctx
}

// Running reports whether Start was called and Stop was not (yet)
func (sc *StartStopContext) Running() bool {
	sc.lock.Lock()
	defer sc.lock.Unlock()

	return sc.cancel != nil
}

// Start creates a cancellable context and returns it.
// Will fail when either this context is already started or parent context
// was cancelled.
func (sc *StartStopContext) Start() (context.Context, error) {
	sc.lock.Lock()
	defer sc.lock.Unlock()

	if sc.cancel != nil {
		return nil, ErrRunning
	}

	select {
	case <-sc.parentCtx.Done():
		return nil, ErrParentStopped
	default:
	}

	sc.ctx, sc.cancel = context.WithCancel(sc.parentCtx)
	return sc.ctx, nil
}

// Go runs worker in a goroutine with the running context.
// Stop waits for all workers to return.
func (sc *StartStopContext) Go(worker func(ctx context.Context)) error {
	sc.lock.Lock()
	defer sc.lock.Unlock()

	if sc.cancel == nil {
		return ErrStopped
	}

	ctx := sc.ctx
	sc.wg.Add(1)
	go func() {
		defer sc.wg.Done()
		worker(ctx)
	}()
	return nil
}

// Stop cancels underlying context and waits for workers.
// Returns ErrStopped if the context wasn't started. Workers are waited for
// even if parent context was cancelled meanwhile.
func (sc *StartStopContext) Stop() error {
	sc.lock.Lock()
	if sc.cancel == nil {
		sc.lock.Unlock()
		return ErrStopped
	}

	cancel := sc.cancel
	sc.cancel = nil
	sc.lock.Unlock()

	cancel()
	sc.wg.Wait()
	return nil
}
