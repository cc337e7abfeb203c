// Package ucierr defines the sentinel errors shared across the engine
// driver so callers can distinguish failure kinds with errors.Is.
package ucierr

import "errors"

var (
	// ErrInit means a handshake did not complete: the transport broke, the
	// engine process exited, or the handshake was cancelled.
	ErrInit = errors.New("uci: engine initialization failed")

	// ErrTerminated means an operation was attempted on a disposed session
	// or pool.
	ErrTerminated = errors.New("uci: session or pool terminated")

	// ErrInvalidInput means an empty FEN or empty SAN token was supplied.
	ErrInvalidInput = errors.New("uci: invalid input")

	// ErrInvalidMove means no geometrically reachable piece matched a SAN
	// token's disambiguation constraints.
	ErrInvalidMove = errors.New("uci: invalid move")

	// ErrProtocolViolation means a bestmove line could not be parsed.
	ErrProtocolViolation = errors.New("uci: protocol violation")

	// ErrNoEvaluation means bestmove arrived with no info lines folded into
	// the accumulator.
	ErrNoEvaluation = errors.New("uci: no evaluation available")

	// ErrNoSuchEngine means a pool checkout named a factory that was never
	// registered.
	ErrNoSuchEngine = errors.New("uci: no such engine")

	// ErrCancelled means a cancellation signal fired before completion.
	ErrCancelled = errors.New("uci: operation cancelled")
)
