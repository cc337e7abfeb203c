// Package uci implements the UCI session driver: a full-duplex mediator
// between caller requests and an asynchronous, line-streaming engine
// process. See SPEC_FULL.md §4.3.
package uci

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/xalluna/EngineUCI/internal/transport"
	"github.com/xalluna/EngineUCI/pkg/sanlan"
	"github.com/xalluna/EngineUCI/pkg/uciproto"
	"github.com/xalluna/EngineUCI/pkg/ucierr"
)

type sessionState int

const (
	stateNew sessionState = iota
	stateStarting
	stateHandshaking
	stateReady
	stateSearching
	stateTerminated
)

// completion is a single-assignment result slot. send is safe to call more
// than once; only the first call has effect.
type completion[T any] struct {
	ch   chan T
	once sync.Once
}

func newCompletion[T any]() *completion[T] {
	return &completion[T]{ch: make(chan T, 1)}
}

func (c *completion[T]) send(v T) {
	c.once.Do(func() { c.ch <- v })
}

// Session is the UCI session driver: it owns the transport, serializes
// commands against it, and routes asynchronous response lines to whichever
// operation is waiting on them.
type Session struct {
	transport transport.Transport
	log       zerolog.Logger

	writeMu  sync.Mutex
	searchMu sync.Mutex
	readyMu  sync.Mutex

	stateMu sync.Mutex
	state   sessionState

	handshakeDone *completion[bool]
	readyDone     *completion[bool]
	bestMoveDone  *completion[bestMoveResult]
	evalDone      *completion[evalResult]

	pendingMu     sync.Mutex
	searching     bool
	searchRelease func()

	acc *accumulator

	disposeOnce sync.Once
	disposed    chan struct{}
}

type bestMoveResult struct {
	move string
	err  error
}

type evalResult struct {
	evals EvaluationCollection
	err   error
}

// New wraps transport in a Session. The transport must not have been
// started yet; Start does that.
func New(t transport.Transport, log zerolog.Logger) *Session {
	return &Session{
		transport:     t,
		log:           log.With().Str("component", "uci-session").Logger(),
		state:         stateNew,
		handshakeDone: newCompletion[bool](),
		readyDone:     newCompletion[bool](),
		bestMoveDone:  newCompletion[bestMoveResult](),
		evalDone:      newCompletion[evalResult](),
		acc:           newAccumulator(),
		disposed:      make(chan struct{}),
	}
}

func (s *Session) setState(st sessionState) {
	s.stateMu.Lock()
	s.state = st
	s.stateMu.Unlock()
}

func (s *Session) getState() sessionState {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state
}

// IsInitialized reports whether handshake has succeeded and the session has
// not since been disposed.
func (s *Session) IsInitialized() bool {
	st := s.getState()
	return st == stateReady || st == stateSearching
}

// Start launches the transport and begins consuming its output on a
// background goroutine. Must be called before any other operation.
func (s *Session) Start() error {
	if err := s.transport.Start(); err != nil {
		return fmt.Errorf("uci: start transport: %w", err)
	}
	s.setState(stateStarting)
	go s.readLoop()
	return nil
}

// readLoop is the single background consumer described in spec.md §4.3
// "Response routing": it owns all reads from the transport and routes each
// line to the appropriate completion handle or accumulator.
func (s *Session) readLoop() {
	for line := range s.transport.Lines() {
		s.route(line)
	}
	s.log.Debug().Msg("engine output stream closed")
}

func (s *Session) route(line string) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "uciok":
		s.handshakeDone.send(true)

	case trimmed == "readyok":
		s.readyDone.send(true)

	case strings.HasPrefix(trimmed, "info"):
		s.pendingMu.Lock()
		active := s.searching
		s.pendingMu.Unlock()
		if !active {
			return
		}
		if info, ok := uciproto.ParseInfo(trimmed); ok {
			s.acc.fold(info)
		}

	case strings.HasPrefix(trimmed, "bestmove"):
		s.handleBestMove(trimmed)

	default:
		s.log.Trace().Str("line", trimmed).Msg("unrecognized line discarded")
	}
}

func (s *Session) handleBestMove(line string) {
	s.pendingMu.Lock()
	active := s.searching
	s.searching = false
	release := s.searchRelease
	s.searchRelease = nil
	s.pendingMu.Unlock()

	if release != nil {
		release()
	}

	if !active {
		// Stray bestmove with no in-flight search: discarded per spec.md
		// §4.3 Failure model.
		return
	}

	move, ok := uciproto.ParseBestMove(line)
	if !ok {
		err := fmt.Errorf("uci: malformed bestmove line %q: %w", line, ucierr.ErrProtocolViolation)
		s.bestMoveDone.send(bestMoveResult{err: err})
		if evals, has := s.acc.snapshot(); has {
			s.evalDone.send(evalResult{evals: evals})
		} else {
			s.evalDone.send(evalResult{err: err})
		}
		s.setState(stateReady)
		return
	}

	s.bestMoveDone.send(bestMoveResult{move: move})

	if evals, has := s.acc.snapshot(); has {
		s.evalDone.send(evalResult{evals: evals})
	} else {
		s.evalDone.send(evalResult{err: ucierr.ErrNoEvaluation})
	}

	s.setState(stateReady)
}

// writeLine serializes one command write against every other write.
func (s *Session) writeLine(line string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.transport.WriteLine(line); err != nil {
		s.setState(stateTerminated)
		return fmt.Errorf("uci: write %q: %w", line, err)
	}
	return nil
}

func (s *Session) checkNotTerminated() error {
	if s.getState() == stateTerminated {
		return ucierr.ErrTerminated
	}
	return nil
}

// Handshake sends "uci" and waits for "uciok". On success the session
// transitions straight to Ready, so IsInitialized reports true without a
// separate WaitReady call. A cancelled handshake fails with an error that
// matches both ucierr.ErrInit and ucierr.ErrCancelled.
func (s *Session) Handshake(ctx context.Context) error {
	if err := s.checkNotTerminated(); err != nil {
		return err
	}
	s.setState(stateHandshaking)

	if err := s.writeLine("uci"); err != nil {
		return fmt.Errorf("%w: %v", ucierr.ErrInit, err)
	}

	select {
	case ok := <-s.handshakeDone.ch:
		if !ok {
			return ucierr.ErrTerminated
		}
		s.setState(stateReady)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w: %v", ucierr.ErrInit, ucierr.ErrCancelled, ctx.Err())
	}
}

// WaitReady sends "isready" and waits for "readyok", serialized against any
// other isready/readyok pairing so completions are never cross-resolved.
func (s *Session) WaitReady(ctx context.Context) error {
	if err := s.checkNotTerminated(); err != nil {
		return err
	}

	s.readyMu.Lock()
	defer s.readyMu.Unlock()

	s.readyDone = newCompletion[bool]()

	if err := s.writeLine("isready"); err != nil {
		return err
	}

	select {
	case ok := <-s.readyDone.ch:
		if !ok {
			return ucierr.ErrTerminated
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ucierr.ErrCancelled, ctx.Err())
	}
}

// NewGame sends "ucinewgame".
func (s *Session) NewGame(ctx context.Context) error {
	if err := s.checkNotTerminated(); err != nil {
		return err
	}
	return s.writeLine("ucinewgame")
}

// SetPosition sends "position fen <FEN> [moves ...]" or "position startpos
// [moves ...]". fen is nil for "use the startpos"; a non-nil fen must be
// non-empty (spec.md §7: an explicitly empty FEN is *invalid-input*, not a
// request for startpos — the two are not the same thing). moves are
// normalized to UCI's lowercase, no-"=" form regardless of how they were
// produced (see pkg/sanlan.NormalizeUCI).
func (s *Session) SetPosition(ctx context.Context, fen *string, moves []string) error {
	if err := s.checkNotTerminated(); err != nil {
		return err
	}
	if fen != nil && *fen == "" {
		return fmt.Errorf("uci: FEN must not be empty: %w", ucierr.ErrInvalidInput)
	}

	var b strings.Builder
	b.WriteString("position ")
	if fen != nil {
		b.WriteString("fen ")
		b.WriteString(*fen)
	} else {
		b.WriteString("startpos")
	}
	if len(moves) > 0 {
		b.WriteString(" moves")
		for _, m := range moves {
			b.WriteString(" ")
			b.WriteString(sanlan.NormalizeUCI(m))
		}
	}
	return s.writeLine(b.String())
}

// SetOption sends "setoption name <name> value <value>".
func (s *Session) SetOption(ctx context.Context, name, value string) error {
	if err := s.checkNotTerminated(); err != nil {
		return err
	}
	return s.writeLine(fmt.Sprintf("setoption name %s value %s", name, value))
}

// SetMultiPv is equivalent to SetOption("MultiPV", n).
func (s *Session) SetMultiPv(ctx context.Context, n int) error {
	if n < 1 {
		return fmt.Errorf("uci: MultiPV must be >= 1: %w", ucierr.ErrInvalidInput)
	}
	return s.SetOption(ctx, "MultiPV", strconv.Itoa(n))
}

// beginSearch takes SearchLock for the duration of the search, resets the
// per-search completion handles and accumulator under that lock so the
// reader goroutine never observes a handle being replaced mid-flight, and
// sends the "go" command.
//
// SearchLock is released exactly once, by handleBestMove when the engine's
// bestmove for this search actually arrives — not when the caller stops
// waiting on it. A cancelled GetBestMove/Evaluate call returns immediately,
// but the lock stays held until that bestmove shows up (or the session is
// disposed), so a second search is never sent to the engine while the first
// is still outstanding.
func (s *Session) beginSearch(limit SearchLimit) (bm *completion[bestMoveResult], ev *completion[evalResult], err error) {
	s.searchMu.Lock()

	bm = newCompletion[bestMoveResult]()
	ev = newCompletion[evalResult]()

	s.pendingMu.Lock()
	s.bestMoveDone = bm
	s.evalDone = ev
	s.searching = true
	s.searchRelease = func() { s.searchMu.Unlock() }
	s.pendingMu.Unlock()

	s.acc.start()
	s.setState(stateSearching)

	if werr := s.writeLine(limit.command()); werr != nil {
		s.pendingMu.Lock()
		s.searching = false
		release := s.searchRelease
		s.searchRelease = nil
		s.pendingMu.Unlock()
		release()
		return nil, nil, werr
	}

	return bm, ev, nil
}

// GetBestMove starts a bounded search and resolves to the engine's chosen
// move once bestmove arrives.
func (s *Session) GetBestMove(ctx context.Context, limit SearchLimit) (string, error) {
	if err := s.checkNotTerminated(); err != nil {
		return "", err
	}

	bm, _, err := s.beginSearch(limit)
	if err != nil {
		return "", err
	}

	select {
	case res := <-bm.ch:
		return res.move, res.err
	case <-ctx.Done():
		s.cancelSearch()
		err := fmt.Errorf("%w: %v", ucierr.ErrCancelled, ctx.Err())
		bm.send(bestMoveResult{err: err})
		return "", err
	}
}

// Evaluate starts a bounded search, accumulates info lines, and resolves to
// an EvaluationCollection built from the accumulator once bestmove arrives.
func (s *Session) Evaluate(ctx context.Context, limit SearchLimit) (EvaluationCollection, error) {
	if err := s.checkNotTerminated(); err != nil {
		return EvaluationCollection{}, err
	}

	_, ev, err := s.beginSearch(limit)
	if err != nil {
		return EvaluationCollection{}, err
	}

	select {
	case res := <-ev.ch:
		return res.evals, res.err
	case <-ctx.Done():
		s.cancelSearch()
		err := fmt.Errorf("%w: %v", ucierr.ErrCancelled, ctx.Err())
		ev.send(evalResult{err: err})
		return EvaluationCollection{}, err
	}
}

// cancelSearch sends "stop" best-effort. The search state exits Searching
// only when the engine's bestmove eventually arrives (handleBestMove);
// if no handle remains by then, that line is simply discarded.
func (s *Session) cancelSearch() {
	s.pendingMu.Lock()
	active := s.searching
	s.pendingMu.Unlock()
	if !active {
		return
	}
	_ = s.writeLine("stop")
}

// Dispose fires the one-shot disposed notification and fails any
// outstanding completion with ErrTerminated before tearing down the
// transport. Per spec.md §9, the notification must fire before final
// resource release — not after, as the source's GetBestMoveAsync-adjacent
// OnDispose path does — so that a pool's Handle.watchDispose can release its
// permit without waiting on the transport's process-kill grace period. Safe
// to call more than once.
func (s *Session) Dispose() error {
	var err error
	s.disposeOnce.Do(func() {
		s.setState(stateTerminated)

		s.pendingMu.Lock()
		release := s.searchRelease
		s.searchRelease = nil
		s.pendingMu.Unlock()
		if release != nil {
			release()
		}

		s.handshakeDone.send(false)
		s.readyDone.send(false)
		s.bestMoveDone.send(bestMoveResult{err: ucierr.ErrTerminated})
		s.evalDone.send(evalResult{err: ucierr.ErrTerminated})
		close(s.disposed)

		err = s.transport.Dispose()
	})
	return err
}

// Disposed returns a channel closed exactly once by Dispose, after every
// outstanding completion has been failed and before the transport is torn
// down.
func (s *Session) Disposed() <-chan struct{} {
	return s.disposed
}
