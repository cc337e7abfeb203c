package pool

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xalluna/EngineUCI/pkg/uci"
	"github.com/xalluna/EngineUCI/pkg/ucierr"
)

// noopTransport satisfies transport.Transport without ever spawning a
// process; its Lines channel is never fed, so sessions built over it never
// progress past whatever the test drives directly.
type noopTransport struct {
	lines chan string
}

func newNoopTransport() *noopTransport {
	return &noopTransport{lines: make(chan string)}
}

func (t *noopTransport) Start() error          { return nil }
func (t *noopTransport) WriteLine(string) error { return nil }
func (t *noopTransport) Lines() <-chan string  { return t.lines }
func (t *noopTransport) Dispose() error        { return nil }

func newTestSession(t *testing.T) *uci.Session {
	t.Helper()
	s := uci.New(newNoopTransport(), zerolog.Nop())
	require.NoError(t, s.Start())
	return s
}

func TestCheckoutAndDisposeReturnsPermit(t *testing.T) {
	p := New(1, zerolog.Nop())
	p.Register("default", func() (*uci.Session, error) {
		return newTestSession(t), nil
	})

	h1, err := p.Checkout(context.Background(), "default")
	require.NoError(t, err)

	// Capacity is 1: a second checkout must block until h1 is disposed.
	secondErr := make(chan error, 1)
	go func() {
		h2, err := p.Checkout(context.Background(), "default")
		if err == nil {
			h2.Dispose()
		}
		secondErr <- err
	}()

	select {
	case <-secondErr:
		t.Fatal("second checkout completed before the first was disposed")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, h1.Dispose())

	select {
	case err := <-secondErr:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("second checkout never unblocked")
	}
}

func TestCheckoutUnknownEngine(t *testing.T) {
	p := New(4, zerolog.Nop())
	_, err := p.Checkout(context.Background(), "nope")
	assert.ErrorIs(t, err, ucierr.ErrNoSuchEngine)
}

func TestCheckoutAfterDisposeFails(t *testing.T) {
	p := New(4, zerolog.Nop())
	p.Register("default", func() (*uci.Session, error) {
		return newTestSession(t), nil
	})

	p.Dispose()

	_, err := p.Checkout(context.Background(), "default")
	assert.ErrorIs(t, err, ucierr.ErrTerminated)
}

func TestCheckoutFactoryFailureReleasesPermit(t *testing.T) {
	p := New(1, zerolog.Nop())
	boom := errors.New("engine spawn failed")
	p.Register("broken", func() (*uci.Session, error) {
		return nil, boom
	})

	_, err := p.Checkout(context.Background(), "broken")
	require.Error(t, err)

	// The failed checkout must not have consumed the single permit.
	p.Register("default", func() (*uci.Session, error) {
		return newTestSession(t), nil
	})
	h, err := p.Checkout(context.Background(), "default")
	require.NoError(t, err)
	require.NoError(t, h.Dispose())
}

func TestCheckoutAsync(t *testing.T) {
	p := New(1, zerolog.Nop())
	p.Register("default", func() (*uci.Session, error) {
		return newTestSession(t), nil
	})

	res := <-p.CheckoutAsync(context.Background(), "default")
	require.NoError(t, res.Err)
	require.NoError(t, res.Handle.Dispose())
}

func TestCheckoutRespectsContextCancellation(t *testing.T) {
	p := New(1, zerolog.Nop())
	p.Register("default", func() (*uci.Session, error) {
		return newTestSession(t), nil
	})

	h, err := p.Checkout(context.Background(), "default")
	require.NoError(t, err)
	defer h.Dispose()

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	var gotErr error
	go func() {
		defer wg.Done()
		_, gotErr = p.Checkout(ctx, "default")
	}()

	cancel()
	wg.Wait()
	assert.ErrorIs(t, gotErr, ucierr.ErrCancelled)
}
