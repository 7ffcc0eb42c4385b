package shell

import (
	"context"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, cfg PoolConfig) *Pool {
	t.Helper()
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}
	p := NewPool(cfg)
	t.Cleanup(p.DestroyAll)
	return p
}

func TestPoolReusesSession(t *testing.T) {
	p := newTestPool(t, PoolConfig{})
	ctx := context.Background()

	s1, err := p.GetSession(ctx, "conv-1")
	require.NoError(t, err)
	s2, err := p.GetSession(ctx, "conv-1")
	require.NoError(t, err)

	assert.Same(t, s1, s2)
	assert.Equal(t, 1, p.Count())
}

func TestPoolSeparateSessionsPerConversation(t *testing.T) {
	p := newTestPool(t, PoolConfig{})
	ctx := context.Background()

	s1, err := p.GetSession(ctx, "conv-1")
	require.NoError(t, err)
	s2, err := p.GetSession(ctx, "conv-2")
	require.NoError(t, err)

	assert.NotSame(t, s1, s2)
	assert.Equal(t, 2, p.Count())

	// State set in one session must not leak into the other.
	_, err = s1.Exec(ctx, "export POOL_TEST=one", Callbacks{})
	require.NoError(t, err)
	res, err := s2.Exec(ctx, "echo \"val=${POOL_TEST:-unset}\"", Callbacks{})
	require.NoError(t, err)
	assert.Contains(t, res.Output, "val=unset")
}

func TestPoolSingleFlightCreation(t *testing.T) {
	p := newTestPool(t, PoolConfig{})
	ctx := context.Background()

	const n = 8
	sessions := make([]*Session, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := p.GetSession(ctx, "conv-1")
			require.NoError(t, err)
			sessions[i] = s
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.Same(t, sessions[0], sessions[i])
	}
	assert.Equal(t, 1, p.Count())
}

func TestPoolReplacesDeadSession(t *testing.T) {
	p := newTestPool(t, PoolConfig{})
	ctx := context.Background()

	s1, err := p.GetSession(ctx, "conv-1")
	require.NoError(t, err)

	// Kill the shell; the pool must hand out a fresh session next time.
	_, err = s1.Exec(ctx, "exit 0", Callbacks{})
	assert.Error(t, err)
	require.Eventually(t, func() bool { return !s1.Alive() }, 5*time.Second, 20*time.Millisecond)

	s2, err := p.GetSession(ctx, "conv-1")
	require.NoError(t, err)
	assert.NotSame(t, s1, s2)
	assert.True(t, s2.Alive())

	res, err := s2.Exec(ctx, "echo alive", Callbacks{})
	require.NoError(t, err)
	assert.Contains(t, res.Output, "alive")
}

func TestPoolDestroySession(t *testing.T) {
	p := newTestPool(t, PoolConfig{})
	ctx := context.Background()

	s, err := p.GetSession(ctx, "conv-1")
	require.NoError(t, err)

	p.DestroySession("conv-1")
	assert.Equal(t, 0, p.Count())
	require.Eventually(t, func() bool { return !s.Alive() }, 5*time.Second, 20*time.Millisecond)

	// Destroying an unknown conversation is a no-op.
	p.DestroySession("conv-missing")
}

func TestPoolIdleSweep(t *testing.T) {
	p := newTestPool(t, PoolConfig{
		IdleExpiry:    50 * time.Millisecond,
		SweepInterval: 25 * time.Millisecond,
	})
	p.Start()
	ctx := context.Background()

	s, err := p.GetSession(ctx, "conv-1")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return p.Count() == 0 }, 5*time.Second, 20*time.Millisecond)
	require.Eventually(t, func() bool { return !s.Alive() }, 5*time.Second, 20*time.Millisecond)
}

func TestPoolDestroyAllStopsEverything(t *testing.T) {
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}
	p := NewPool(PoolConfig{})
	ctx := context.Background()

	s1, err := p.GetSession(ctx, "conv-1")
	require.NoError(t, err)
	s2, err := p.GetSession(ctx, "conv-2")
	require.NoError(t, err)

	p.DestroyAll()
	assert.Equal(t, 0, p.Count())
	require.Eventually(t, func() bool { return !s1.Alive() && !s2.Alive() }, 5*time.Second, 20*time.Millisecond)
}
