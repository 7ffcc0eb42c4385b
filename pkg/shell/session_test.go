package shell

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	if cfg.ShellPath == "" {
		path, err := exec.LookPath("bash")
		if err != nil {
			t.Skip("bash not available")
		}
		cfg.ShellPath = path
	}
	s := NewSession("conv-test", cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, s.Start(ctx))
	t.Cleanup(s.Stop)
	return s
}

func TestSessionExecBasic(t *testing.T) {
	s := newTestSession(t, Config{})

	res, err := s.Exec(context.Background(), "echo hello", Callbacks{})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello", strings.TrimSpace(res.Output))
}

func TestSessionExecNonZeroExit(t *testing.T) {
	s := newTestSession(t, Config{})

	res, err := s.Exec(context.Background(), "ls /nonexistent-parley-dir", Callbacks{})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.NotEqual(t, 0, res.ExitCode)
	assert.Contains(t, res.Output, "nonexistent-parley-dir")

	// The failed command must not kill the session.
	res, err = s.Exec(context.Background(), "echo still-here", Callbacks{})
	require.NoError(t, err)
	assert.Equal(t, "still-here", strings.TrimSpace(res.Output))
}

func TestSessionStatePersistsAcrossCommands(t *testing.T) {
	s := newTestSession(t, Config{})

	_, err := s.Exec(context.Background(), "cd /tmp && export PARLEY_TEST_VAR=persisted", Callbacks{})
	require.NoError(t, err)

	res, err := s.Exec(context.Background(), "pwd; echo $PARLEY_TEST_VAR", Callbacks{})
	require.NoError(t, err)
	assert.Contains(t, res.Output, "/tmp")
	assert.Contains(t, res.Output, "persisted")
}

func TestSessionFIFOOrdering(t *testing.T) {
	s := newTestSession(t, Config{})

	var mu sync.Mutex
	var order []string
	var wg sync.WaitGroup

	// Queue commands from separate goroutines; completion order must match
	// submission order because execution is strictly serial.
	for i := 0; i < 5; i++ {
		tag := fmt.Sprintf("cmd-%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.Exec(context.Background(), "echo "+tag, Callbacks{})
			require.NoError(t, err)
			mu.Lock()
			order = append(order, strings.TrimSpace(res.Output))
			mu.Unlock()
		}()
		// Stagger submissions so queue order is deterministic.
		time.Sleep(50 * time.Millisecond)
	}
	wg.Wait()

	assert.Equal(t, []string{"cmd-0", "cmd-1", "cmd-2", "cmd-3", "cmd-4"}, order)
}

func TestSessionStreamedOutput(t *testing.T) {
	s := newTestSession(t, Config{})

	var mu sync.Mutex
	var streamed strings.Builder
	res, err := s.Exec(context.Background(),
		"for i in 1 2 3; do echo line-$i; sleep 0.05; done",
		Callbacks{
			OnOutput: func(chunk string) {
				mu.Lock()
				streamed.WriteString(chunk)
				mu.Unlock()
			},
		})
	require.NoError(t, err)
	assert.True(t, res.Success)

	mu.Lock()
	got := streamed.String()
	mu.Unlock()
	// Streamed chunks concatenate to the final output, markers excluded.
	assert.Equal(t, res.Output, got)
	assert.Contains(t, got, "line-1")
	assert.Contains(t, got, "line-3")
	assert.NotContains(t, got, s.promptMarker)
	assert.NotContains(t, got, s.exitMarker)
}

func TestSessionOutputExcludesPromptNoise(t *testing.T) {
	s := newTestSession(t, Config{})

	// The shell's own prompt must never surface in command output, on the
	// first command or any later one.
	for _, want := range []string{"one", "two", "three"} {
		res, err := s.Exec(context.Background(), "echo "+want, Callbacks{})
		require.NoError(t, err)
		assert.Equal(t, want, strings.TrimSpace(res.Output))
		assert.NotContains(t, res.Output, "bash-")
	}
}

func TestSessionMarkerLikeOutputDoesNotTerminate(t *testing.T) {
	s := newTestSession(t, Config{})

	// Output carrying the marker prefixes must not end capture early or
	// corrupt the exit code; only the session's random markers terminate.
	res, err := s.Exec(context.Background(),
		"echo PARLEY_PS1_ffffffffffffffffffffffff; echo PARLEY_RC_0; echo tail-line", Callbacks{})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Output, "PARLEY_PS1_ffffffffffffffffffffffff")
	assert.Contains(t, res.Output, "PARLEY_RC_0")
	assert.Contains(t, res.Output, "tail-line")
}

func TestSessionCommandTimeout(t *testing.T) {
	s := newTestSession(t, Config{CommandTimeout: 300 * time.Millisecond})

	_, err := s.Exec(context.Background(), "sleep 5", Callbacks{})
	assert.ErrorIs(t, err, ErrCommandTimeout)

	// Session stays alive after a timeout; the next command waits for the
	// shell to come back to its prompt on its own clock.
	assert.True(t, s.Alive())
	_, err = s.Exec(context.Background(), "echo after-timeout", Callbacks{})
	assert.ErrorIs(t, err, ErrCommandTimeout)
}

func TestSessionTimeoutRecovery(t *testing.T) {
	s := newTestSession(t, Config{CommandTimeout: 2 * time.Second})

	_, err := s.Exec(context.Background(), "sleep 0.2 && echo done", Callbacks{})
	require.NoError(t, err)

	// A short-lived overrun recovers once the stale prompt arrives.
	short := newTestSession(t, Config{CommandTimeout: 400 * time.Millisecond})
	_, err = short.Exec(context.Background(), "sleep 0.6", Callbacks{})
	assert.ErrorIs(t, err, ErrCommandTimeout)

	res, err := short.Exec(context.Background(), "echo recovered", Callbacks{})
	require.NoError(t, err)
	assert.Equal(t, "recovered", strings.TrimSpace(res.Output))
}

func TestSessionDeathFailsPending(t *testing.T) {
	s := newTestSession(t, Config{})

	var errOut error
	res, err := s.Exec(context.Background(), "exit 0", Callbacks{
		OnError: func(e error) { errOut = e },
	})
	// Exiting the shell kills the session mid-command.
	assert.ErrorIs(t, err, ErrSessionDied)
	assert.ErrorIs(t, res.Err, ErrSessionDied)
	assert.ErrorIs(t, errOut, ErrSessionDied)

	assert.Eventually(t, func() bool { return !s.Alive() }, 5*time.Second, 50*time.Millisecond)

	_, err = s.Exec(context.Background(), "echo nope", Callbacks{})
	assert.ErrorIs(t, err, ErrSessionDied)
}

func TestSessionStopFailsQueued(t *testing.T) {
	s := newTestSession(t, Config{})

	done := make(chan error, 1)
	go func() {
		_, err := s.Exec(context.Background(), "sleep 10", Callbacks{})
		done <- err
	}()
	time.Sleep(200 * time.Millisecond)

	s.Stop()
	err := <-done
	assert.Error(t, err)
}

func TestSplitExitCode(t *testing.T) {
	s := NewSession("conv-unit", Config{})

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantOut  string
	}{
		{
			name:     "clean output with trailing newline",
			body:     "a.txt\nb.txt\n" + s.exitMarker + "0\n",
			wantCode: 0,
			wantOut:  "a.txt\nb.txt\n",
		},
		{
			name:     "nonzero exit",
			body:     "no such file\n" + s.exitMarker + "2\n",
			wantCode: 2,
			wantOut:  "no such file\n",
		},
		{
			name:     "output without trailing newline",
			body:     "tail" + s.exitMarker + "0\n",
			wantCode: 0,
			wantOut:  "tail",
		},
		{
			name:     "missing marker",
			body:     "orphaned output",
			wantCode: -1,
			wantOut:  "orphaned output",
		},
		{
			name:     "empty output",
			body:     s.exitMarker + "127\n",
			wantCode: 127,
			wantOut:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out := s.splitExitCode(tt.body)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantOut, out)
		})
	}
}

// TestMarkerDetectionAcrossChunks verifies boundary detection when the
// prompt marker arrives split across PTY reads, by feeding chunks directly
// into the read channel of a session whose shell is simulated.
func TestMarkerDetectionAcrossChunks(t *testing.T) {
	s := NewSession("conv-chunks", Config{CommandTimeout: 2 * time.Second})
	s.mu.Lock()
	s.alive = true
	s.started = true
	s.mu.Unlock()

	var streamed strings.Builder
	c := &command{
		text: "noop",
		callbacks: Callbacks{
			OnOutput: func(chunk string) { streamed.WriteString(chunk) },
		},
		resultCh: make(chan CommandResult, 1),
	}

	go func() {
		feed := "partial output line\n" + s.exitMarker + "0\n" + s.promptMarker
		// Feed in 3-byte chunks so both markers straddle boundaries.
		for i := 0; i < len(feed); i += 3 {
			end := min(i+3, len(feed))
			s.readCh <- feed[i:end]
		}
	}()

	timer := time.NewTimer(s.cfg.CommandTimeout)
	defer timer.Stop()
	done := make(chan struct{})
	go func() {
		s.consume(c, timer)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("marker was never detected")
	}

	res := <-c.resultCh
	assert.True(t, res.Success)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "partial output line\n", res.Output)
	assert.Equal(t, res.Output, streamed.String())
	assert.NotContains(t, streamed.String(), s.exitMarker)
	assert.NotContains(t, streamed.String(), s.promptMarker)
}
