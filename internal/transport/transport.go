// Package transport spawns a UCI engine child process and exposes its
// standard streams as a line-oriented interface. It knows nothing about the
// UCI protocol itself; it only moves bytes.
package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Transport is the contract the session depends on: spawn, serialized line
// writes, an observable stream of decoded output lines, and teardown.
type Transport interface {
	Start() error
	WriteLine(line string) error
	Lines() <-chan string
	Dispose() error
}

// killGrace bounds how long Dispose waits for the process to exit on its
// own after its stdin is closed before it is killed outright.
const killGrace = 2 * time.Second

// Process is a Transport backed by an os/exec.Cmd with piped stdin/stdout.
type Process struct {
	path string
	args []string
	log  zerolog.Logger

	cmd   *exec.Cmd
	stdin io.WriteCloser

	writeMu sync.Mutex

	lines chan string
	done  chan struct{}

	disposeOnce sync.Once
	terminated  bool
	termMu      sync.Mutex
}

// New builds a Process transport for the engine executable at path.
func New(path string, args []string, log zerolog.Logger) *Process {
	return &Process{
		path:  path,
		args:  args,
		log:   log.With().Str("component", "transport").Str("engine", path).Logger(),
		lines: make(chan string),
		done:  make(chan struct{}),
	}
}

// Start spawns the engine and begins a background line reader. The reader
// goroutine runs until the stdout pipe closes (on process exit) or Dispose
// is called.
func (p *Process) Start() error {
	p.cmd = exec.Command(p.path, p.args...)

	stdout, err := p.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("transport: stdout pipe: %w", err)
	}
	stdin, err := p.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("transport: stdin pipe: %w", err)
	}
	p.stdin = stdin

	if err := p.cmd.Start(); err != nil {
		return fmt.Errorf("transport: start %s: %w", p.path, err)
	}
	p.log.Debug().Msg("engine process started")

	go p.readLoop(stdout)

	return nil
}

func (p *Process) readLoop(stdout io.ReadCloser) {
	defer close(p.lines)

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		p.log.Trace().Str("line", line).Msg("engine -> host")
		select {
		case p.lines <- line:
		case <-p.done:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		p.log.Warn().Err(err).Msg("engine stdout reader stopped")
	}
}

// WriteLine appends a newline and flushes, serialized against other writes
// so interleaved characters never reach the engine.
func (p *Process) WriteLine(line string) error {
	p.termMu.Lock()
	terminated := p.terminated
	p.termMu.Unlock()
	if terminated {
		return fmt.Errorf("transport: write after dispose: %w", errTerminated)
	}

	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.log.Debug().Str("line", line).Msg("host -> engine")
	if _, err := io.WriteString(p.stdin, line+"\n"); err != nil {
		return fmt.Errorf("transport: write: %w", err)
	}
	return nil
}

// Lines exposes the decoded output stream, closed when the reader stops.
func (p *Process) Lines() <-chan string {
	return p.lines
}

// Dispose terminates the process and stops the reader. Safe to call more
// than once; only the first call has effect.
func (p *Process) Dispose() error {
	var err error
	p.disposeOnce.Do(func() {
		p.termMu.Lock()
		p.terminated = true
		p.termMu.Unlock()

		close(p.done)

		if p.stdin != nil {
			_ = p.stdin.Close()
		}
		if p.cmd == nil || p.cmd.Process == nil {
			return
		}

		waitDone := make(chan error, 1)
		go func() { waitDone <- p.cmd.Wait() }()

		select {
		case werr := <-waitDone:
			err = werr
		case <-time.After(killGrace):
			p.log.Warn().Msg("engine process did not exit, killing")
			if kerr := p.cmd.Process.Kill(); kerr != nil {
				err = errors.Wrap(kerr, "transport: kill after timeout")
			}
			<-waitDone
		}
		p.log.Debug().Msg("engine process disposed")
	})
	return err
}

// StartWithContext is a convenience constructor for callers that want the
// process killed when ctx is done, independent of Dispose.
func StartWithContext(ctx context.Context, t *Process) error {
	if err := t.Start(); err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		_ = t.Dispose()
	}()
	return nil
}

var errTerminated = fmt.Errorf("transport terminated")
