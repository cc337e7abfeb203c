// Package pool manages a bounded set of concurrently checked-out UCI
// sessions, built from named factories. Checkout blocks for a free permit;
// disposing a checked-out handle returns it.
package pool

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/xalluna/EngineUCI/pkg/uci"
	"github.com/xalluna/EngineUCI/pkg/ucierr"
)

// Factory builds and starts one engine session on demand. Pool never calls
// Factory directly against a name it cannot find in its registry.
type Factory func() (*uci.Session, error)

// Pool bounds concurrent engine checkout behind a buffered-channel
// semaphore and a name-to-factory registry.
type Pool struct {
	log zerolog.Logger

	sem chan struct{}

	mu        sync.Mutex
	factories map[string]Factory

	closeOnce sync.Once
	done      chan struct{}
}

// New returns a Pool with the given capacity (maximum concurrently
// checked-out sessions).
func New(capacity int, log zerolog.Logger) *Pool {
	return &Pool{
		log:       log.With().Str("component", "engine-pool").Logger(),
		sem:       make(chan struct{}, capacity),
		factories: make(map[string]Factory),
		done:      make(chan struct{}),
	}
}

// Register associates name with factory, overwriting any prior registration.
func (p *Pool) Register(name string, f Factory) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.factories[name] = f
}

// Handle wraps a checked-out session. Dispose must be called to return the
// session's permit to the pool; the permit is released only once.
type Handle struct {
	Session *uci.Session

	releaseOnce sync.Once
	release     func()
}

// Dispose tears down the underlying session and returns its permit. Safe to
// call more than once.
func (h *Handle) Dispose() error {
	err := h.Session.Dispose()
	h.releaseOnce.Do(h.release)
	return err
}

// watchDispose releases the permit as soon as the session reports itself
// disposed, even if that happened by some path other than Handle.Dispose
// (spec.md §6 "a pool listens to this [disposed notification] to release
// permits").
func (h *Handle) watchDispose() {
	<-h.Session.Disposed()
	h.releaseOnce.Do(h.release)
}

// Checkout acquires one permit, looks up name in the registry, and builds a
// checked-out Handle. Blocks until a permit is free, ctx is done, or the
// pool has been disposed.
func (p *Pool) Checkout(ctx context.Context, name string) (*Handle, error) {
	if err := p.acquire(ctx); err != nil {
		return nil, err
	}

	p.mu.Lock()
	factory, ok := p.factories[name]
	p.mu.Unlock()
	if !ok {
		p.release()
		return nil, fmt.Errorf("pool: no engine registered as %q: %w", name, ucierr.ErrNoSuchEngine)
	}

	session, err := factory()
	if err != nil {
		p.release()
		return nil, errors.Wrapf(err, "pool: factory %q", name)
	}

	p.log.Debug().Str("engine", name).Msg("checked out")

	h := &Handle{Session: session, release: p.release}
	go h.watchDispose()
	return h, nil
}

// CheckoutResult is the async form's delivered outcome.
type CheckoutResult struct {
	Handle *Handle
	Err    error
}

// CheckoutAsync runs Checkout on a background goroutine, delivering its
// result on the returned channel exactly once.
func (p *Pool) CheckoutAsync(ctx context.Context, name string) <-chan CheckoutResult {
	out := make(chan CheckoutResult, 1)
	go func() {
		h, err := p.Checkout(ctx, name)
		out <- CheckoutResult{Handle: h, Err: err}
	}()
	return out
}

// acquire takes one semaphore slot, checking termination both before and
// after the wait so a checkout racing Dispose never outlives the pool.
func (p *Pool) acquire(ctx context.Context) error {
	select {
	case <-p.done:
		return ucierr.ErrTerminated
	default:
	}

	select {
	case p.sem <- struct{}{}:
	case <-p.done:
		return ucierr.ErrTerminated
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ucierr.ErrCancelled, ctx.Err())
	}

	select {
	case <-p.done:
		<-p.sem
		return ucierr.ErrTerminated
	default:
		return nil
	}
}

func (p *Pool) release() {
	<-p.sem
	p.log.Debug().Msg("permit released")
}

// Dispose marks the pool terminated; every Checkout after this point fails
// with ucierr.ErrTerminated. Already-checked-out handles are unaffected and
// must still be disposed individually to release their permits. Safe to
// call more than once.
func (p *Pool) Dispose() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.log.Debug().Msg("pool terminated")
	})
}
