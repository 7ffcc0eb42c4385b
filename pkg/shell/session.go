// Package shell maintains long-lived interactive shell processes, one per
// conversation, and serializes command execution through them with streamed
// output and completion detection.
package shell

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

// Sentinel errors for command execution.
var (
	// ErrSessionDied indicates the shell process exited while commands were
	// pending or in flight.
	ErrSessionDied = errors.New("shell session died")

	// ErrSessionStopped indicates the session was stopped before the
	// command could run.
	ErrSessionStopped = errors.New("shell session stopped")

	// ErrCommandTimeout indicates the per-command timeout elapsed. The
	// session stays alive; the unfinished command is not interrupted at
	// the shell.
	ErrCommandTimeout = errors.New("command timed out")
)

const (
	// startupTimeout bounds how long Start waits for the first prompt
	// marker after spawning the shell.
	startupTimeout = 15 * time.Second

	// stopGracePeriod bounds how long Stop waits after sending "exit"
	// before force-killing the process.
	stopGracePeriod = 3 * time.Second

	// commandQueueSize bounds how many commands may wait behind the one
	// in flight before Exec starts rejecting.
	commandQueueSize = 64
)

// Callbacks receive streamed output and lifecycle notifications for one
// command. All callbacks for a command fire before any callback of the next
// queued command (FIFO contract). The PTY merges stdout and stderr, so all
// output arrives via OnOutput.
type Callbacks struct {
	OnOutput func(chunk string)
	OnExit   func(exitCode int)
	OnError  func(err error)
}

// CommandResult is the terminal outcome of one Exec call.
type CommandResult struct {
	Success  bool
	ExitCode int
	Output   string
	Err      error
}

// Config holds session construction parameters.
type Config struct {
	// ShellPath is the shell binary (default /bin/bash).
	ShellPath string
	// CommandTimeout is the per-command wall-clock bound (default 2m).
	CommandTimeout time.Duration
	// WorkDir is the initial working directory ("" = inherit).
	WorkDir string
}

type command struct {
	text      string
	callbacks Callbacks
	resultCh  chan CommandResult
}

// Session is one persistent shell bound to a conversation. It owns a
// PTY-backed shell process, executes commands strictly FIFO, and detects
// command completion via high-entropy exit and prompt markers appended to
// each transmitted command. Working directory, environment, and shell
// variables persist between commands.
type Session struct {
	conversationID string
	cfg            Config

	promptMarker string
	exitMarker   string

	cmd  *exec.Cmd
	ptmx *os.File

	cmds   chan *command
	readCh chan string
	stopCh chan struct{}

	stopOnce sync.Once
	wg       sync.WaitGroup

	mu       sync.Mutex
	started  bool
	alive    bool
	pid      int
	lastUsed time.Time

	// needResync is set after a command timeout: the shell has not yet
	// returned to its prompt, so the next command must first wait for the
	// stale marker before being transmitted.
	needResync bool
}

// NewSession creates a session for a conversation. Call Start before Exec.
func NewSession(conversationID string, cfg Config) *Session {
	if cfg.ShellPath == "" {
		cfg.ShellPath = "/bin/bash"
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = 2 * time.Minute
	}
	return &Session{
		conversationID: conversationID,
		cfg:            cfg,
		promptMarker:   "PARLEY_PS1_" + randomToken(),
		exitMarker:     "PARLEY_RC_" + randomToken(),
		cmds:           make(chan *command, commandQueueSize),
		readCh:         make(chan string, 64),
		stopCh:         make(chan struct{}),
		lastUsed:       time.Now(),
	}
}

func randomToken() string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the process is in serious trouble;
		// fall back to a time-derived token so the session still works.
		return strconv.FormatInt(time.Now().UnixNano(), 16)
	}
	return hex.EncodeToString(b)
}

// Start spawns the shell under a PTY, disables terminal echo, waits for the
// first prompt marker, and begins processing queued commands. Idempotent: a
// second call on a live session is a no-op.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started && s.alive {
		s.mu.Unlock()
		return nil
	}
	if s.started {
		s.mu.Unlock()
		return ErrSessionDied
	}
	s.started = true
	s.mu.Unlock()

	cmd := exec.Command(s.cfg.ShellPath, "--norc", "--noprofile")
	cmd.Env = append(os.Environ(), "TERM=dumb")
	if s.cfg.WorkDir != "" {
		cmd.Dir = s.cfg.WorkDir
	}

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("failed to start shell %s: %w", s.cfg.ShellPath, err)
	}

	s.mu.Lock()
	s.cmd = cmd
	s.ptmx = ptmx
	s.alive = true
	s.pid = cmd.Process.Pid
	s.mu.Unlock()

	s.wg.Add(1)
	go s.readLoop()

	go func() {
		_ = cmd.Wait()
		s.markDead()
	}()

	// Disable tty echo and clear the prompt strings, then emit the first
	// prompt marker. Without PS1='' bash prints its prompt before every
	// command and that text would surface as command output. The marker is
	// printed quote-split so an echoed input line (echo is still on when
	// the driver receives these bytes) can never contain the contiguous
	// marker text.
	init := "stty -echo; PS1='' PS2=''\nprintf '%s%s\\n' " + quoteSplit(s.promptMarker) + "\n"
	if _, err := ptmx.Write([]byte(init)); err != nil {
		s.markDead()
		return fmt.Errorf("failed to initialize shell terminal: %w", err)
	}

	if err := s.awaitFirstPrompt(ctx); err != nil {
		_ = s.killProcess()
		return err
	}

	s.wg.Add(1)
	go s.runLoop()

	slog.Debug("Shell session started",
		"conversation_id", s.conversationID, "pid", s.pid)
	return nil
}

// quoteSplit renders a marker as two single-quoted halves. Transmitted
// command lines carry markers only in this split form, so raw input echoed
// back by the terminal can never satisfy marker detection.
func quoteSplit(marker string) string {
	half := len(marker) / 2
	return "'" + marker[:half] + "' '" + marker[half:] + "'"
}

// awaitFirstPrompt discards startup noise (including the echoed init lines)
// until the prompt marker appears, which means echo is off and the shell is
// quiet at its prompt.
func (s *Session) awaitFirstPrompt(ctx context.Context) error {
	deadline := time.NewTimer(startupTimeout)
	defer deadline.Stop()

	var buf string
	for {
		select {
		case chunk, ok := <-s.readCh:
			if !ok {
				return fmt.Errorf("shell exited during startup: %w", ErrSessionDied)
			}
			buf += chunk
			if strings.Contains(buf, s.promptMarker) {
				return nil
			}
		case <-deadline.C:
			return fmt.Errorf("shell did not present a prompt within %s", startupTimeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// readLoop pumps raw PTY output into readCh. It is the sole reader of the
// PTY and closes readCh when the shell exits.
func (s *Session) readLoop() {
	defer s.wg.Done()
	defer close(s.readCh)

	buf := make([]byte, 8192)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			select {
			case s.readCh <- string(buf[:n]):
			case <-s.stopCh:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// runLoop drains the command queue strictly FIFO.
func (s *Session) runLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.stopCh:
			s.failPending(ErrSessionStopped)
			return
		case c := <-s.cmds:
			s.runCommand(c)
		}
	}
}

// runCommand transmits one command and consumes output until the prompt
// marker reappears. The accumulated buffer keeps raw data until boundary
// detection succeeds so a marker straddling a chunk boundary is never
// missed, and never leaks into callbacks.
func (s *Session) runCommand(c *command) {
	s.touch()

	timer := time.NewTimer(s.cfg.CommandTimeout)
	defer timer.Stop()

	// A previous command timed out and its prompt never arrived. Wait for
	// the stale marker before transmitting, on this command's clock.
	if s.needResync {
		if !s.awaitStaleMarker(timer.C) {
			s.failWith(c, "", ErrCommandTimeout)
			return
		}
		s.needResync = false
	}

	// Epilogue prints the exit marker with the command's status, then the
	// prompt marker, both quote-split (see quoteSplit).
	line := fmt.Sprintf("%s; printf '%%s%%s%%d\\n' %s $?; printf '%%s%%s\\n' %s\n",
		c.text, quoteSplit(s.exitMarker), quoteSplit(s.promptMarker))
	if _, err := s.writeRaw(line); err != nil {
		err = fmt.Errorf("failed to transmit command: %w", ErrSessionDied)
		s.failWith(c, "", err)
		return
	}

	s.consume(c, timer)
}

// consume reads output for one transmitted command until its prompt marker,
// timeout, stop, or session death.
func (s *Session) consume(c *command, timer *time.Timer) {
	// holdback is the longest marker prefix that could be split across a
	// chunk boundary; bytes inside it are never emitted until resolved.
	holdback := max(len(s.promptMarker), len(s.exitMarker)) + 8

	var buf string
	var out strings.Builder
	for {
		select {
		case chunk, ok := <-s.readCh:
			if !ok {
				s.failWith(c, out.String(), ErrSessionDied)
				s.failPending(ErrSessionDied)
				return
			}
			buf += chunk

			if pIdx := strings.Index(buf, s.promptMarker); pIdx >= 0 {
				body := buf[:pIdx]
				exitCode, output := s.splitExitCode(body)
				if tail := output[min(out.Len(), len(output)):]; tail != "" {
					out.WriteString(tail)
					if c.callbacks.OnOutput != nil {
						c.callbacks.OnOutput(tail)
					}
				}
				if c.callbacks.OnExit != nil {
					c.callbacks.OnExit(exitCode)
				}
				c.resultCh <- CommandResult{
					Success:  exitCode == 0,
					ExitCode: exitCode,
					Output:   out.String(),
				}
				return
			}

			// No prompt yet: emit everything that is safely past any
			// possible marker prefix, capped at the exit marker if it
			// has already materialized.
			emitTo := len(buf) - holdback
			if eIdx := strings.Index(buf, s.exitMarker); eIdx >= 0 && eIdx < emitTo {
				emitTo = eIdx
			}
			if emitTo > out.Len() {
				tail := buf[out.Len():emitTo]
				out.WriteString(tail)
				if c.callbacks.OnOutput != nil {
					c.callbacks.OnOutput(tail)
				}
			}
		case <-timer.C:
			s.needResync = true
			s.failWith(c, out.String(), ErrCommandTimeout)
			return
		case <-s.stopCh:
			s.failWith(c, out.String(), ErrSessionStopped)
			s.failPending(ErrSessionStopped)
			return
		}
	}
}

// splitExitCode decomposes the pre-prompt buffer into command output and
// the exit code carried by the exit marker line.
func (s *Session) splitExitCode(body string) (int, string) {
	idx := strings.Index(body, s.exitMarker)
	if idx < 0 {
		return -1, body
	}
	output := body[:idx]
	rest := body[idx+len(s.exitMarker):]
	end := strings.IndexAny(rest, "\r\n")
	if end >= 0 {
		rest = rest[:end]
	}
	code, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil {
		return -1, output
	}
	return code, output
}

// awaitStaleMarker consumes output until the previous command's prompt
// marker arrives. Returns false on timeout or session death.
func (s *Session) awaitStaleMarker(timeout <-chan time.Time) bool {
	var buf string
	for {
		select {
		case chunk, ok := <-s.readCh:
			if !ok {
				return false
			}
			buf += chunk
			if idx := strings.Index(buf, s.promptMarker); idx >= 0 {
				return true
			}
			// Keep only a marker-sized tail; stale output is discarded.
			if len(buf) > len(s.promptMarker)*2 {
				buf = buf[len(buf)-len(s.promptMarker)*2:]
			}
		case <-timeout:
			return false
		case <-s.stopCh:
			return false
		}
	}
}

// Exec queues a command for execution and blocks until it completes, fails,
// or ctx is cancelled. Commands run strictly FIFO; ctx cancellation
// abandons the wait but does not interrupt the command at the shell.
func (s *Session) Exec(ctx context.Context, cmdText string, callbacks Callbacks) (CommandResult, error) {
	if !s.Alive() {
		return CommandResult{Err: ErrSessionDied}, ErrSessionDied
	}

	c := &command{
		text:      cmdText,
		callbacks: callbacks,
		resultCh:  make(chan CommandResult, 1),
	}

	select {
	case s.cmds <- c:
	case <-s.stopCh:
		return CommandResult{Err: ErrSessionStopped}, ErrSessionStopped
	case <-ctx.Done():
		return CommandResult{Err: ctx.Err()}, ctx.Err()
	}

	select {
	case res := <-c.resultCh:
		return res, res.Err
	case <-ctx.Done():
		return CommandResult{Err: ctx.Err()}, ctx.Err()
	}
}

// WriteInput writes raw bytes to the shell's terminal. Low-level escape
// hatch; not used for command execution.
func (s *Session) WriteInput(raw string) error {
	_, err := s.writeRaw(raw)
	return err
}

// Stop fails all pending commands, asks the shell to exit, and
// force-terminates after a bounded grace period. Safe to call repeatedly.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)

		_, _ = s.writeRaw("exit\n")

		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(stopGracePeriod):
			_ = s.killProcess()
		}
		_ = s.killProcess()

		s.mu.Lock()
		if s.ptmx != nil {
			_ = s.ptmx.Close()
		}
		s.mu.Unlock()
	})
}

// Alive reports whether the shell process is still running.
func (s *Session) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alive
}

// PID returns the shell's process id (0 before Start).
func (s *Session) PID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pid
}

// LastUsed returns when a command last started executing.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

func (s *Session) writeRaw(data string) (int, error) {
	s.mu.Lock()
	ptmx := s.ptmx
	alive := s.alive
	s.mu.Unlock()
	if ptmx == nil || !alive {
		return 0, ErrSessionDied
	}
	return ptmx.WriteString(data)
}

func (s *Session) markDead() {
	s.mu.Lock()
	wasAlive := s.alive
	s.alive = false
	s.mu.Unlock()
	if wasAlive {
		slog.Info("Shell session exited",
			"conversation_id", s.conversationID, "pid", s.pid)
	}
}

func (s *Session) killProcess() error {
	s.mu.Lock()
	cmd := s.cmd
	s.mu.Unlock()
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

// failWith delivers a failure for the in-flight command.
func (s *Session) failWith(c *command, partial string, err error) {
	if c.callbacks.OnError != nil {
		c.callbacks.OnError(err)
	}
	c.resultCh <- CommandResult{Output: partial, Err: err}
}

// failPending flushes every queued command with err.
func (s *Session) failPending(err error) {
	for {
		select {
		case c := <-s.cmds:
			s.failWith(c, "", err)
		default:
			return
		}
	}
}
