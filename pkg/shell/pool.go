package shell

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// PoolConfig holds session pool parameters.
type PoolConfig struct {
	// Session is the template config applied to every new session.
	Session Config
	// IdleExpiry destroys sessions untouched for this long (0 disables
	// the sweeper).
	IdleExpiry time.Duration
	// SweepInterval is how often the idle sweeper runs (default 1m).
	SweepInterval time.Duration
}

// Pool maps conversations to live shell sessions. At most one session exists
// per conversation; concurrent GetSession calls for the same conversation
// share a single creation (single-flight). Dead sessions are replaced on the
// next GetSession, and idle sessions are reaped in the background.
type Pool struct {
	cfg PoolConfig

	mu       sync.Mutex
	sessions map[string]*entry

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// entry guards one conversation's session creation. ready is closed once
// creation finished; err holds the creation failure, if any.
type entry struct {
	ready   chan struct{}
	session *Session
	err     error
}

// NewPool creates a session pool. Call Start to enable the idle sweeper.
func NewPool(cfg PoolConfig) *Pool {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	return &Pool{
		cfg:      cfg,
		sessions: make(map[string]*entry),
		stopCh:   make(chan struct{}),
	}
}

// Start launches the idle-expiry sweeper.
func (p *Pool) Start() {
	if p.cfg.IdleExpiry <= 0 {
		return
	}
	p.wg.Add(1)
	go p.sweepLoop()
}

// GetSession returns the live session for a conversation, creating and
// starting one if none exists or the previous one died.
func (p *Pool) GetSession(ctx context.Context, conversationID string) (*Session, error) {
	for {
		p.mu.Lock()
		e, ok := p.sessions[conversationID]
		if !ok {
			e = &entry{ready: make(chan struct{})}
			p.sessions[conversationID] = e
			p.mu.Unlock()

			sess := NewSession(conversationID, p.cfg.Session)
			err := sess.Start(ctx)
			if err != nil {
				sess.Stop()
				e.err = err
			} else {
				e.session = sess
			}
			close(e.ready)
			if err != nil {
				p.remove(conversationID, e)
				return nil, err
			}
			return sess, nil
		}
		p.mu.Unlock()

		select {
		case <-e.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if e.err != nil {
			// Creation failed; the failed entry was removed, retry.
			continue
		}
		if e.session.Alive() {
			return e.session, nil
		}
		// Session died since creation: drop it and create a fresh one.
		e.session.Stop()
		p.remove(conversationID, e)
	}
}

// DestroySession stops and removes a conversation's session, if present.
func (p *Pool) DestroySession(conversationID string) {
	p.mu.Lock()
	e, ok := p.sessions[conversationID]
	if ok {
		delete(p.sessions, conversationID)
	}
	p.mu.Unlock()
	if !ok {
		return
	}
	<-e.ready
	if e.session != nil {
		e.session.Stop()
	}
}

// DestroyAll stops every session and the sweeper. Used at shutdown.
func (p *Pool) DestroyAll() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	p.wg.Wait()

	p.mu.Lock()
	entries := make([]*entry, 0, len(p.sessions))
	for id, e := range p.sessions {
		entries = append(entries, e)
		delete(p.sessions, id)
	}
	p.mu.Unlock()

	for _, e := range entries {
		<-e.ready
		if e.session != nil {
			e.session.Stop()
		}
	}
}

// Count returns the number of tracked sessions (live or pending creation).
func (p *Pool) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sessions)
}

func (p *Pool) remove(conversationID string, e *entry) {
	p.mu.Lock()
	if cur, ok := p.sessions[conversationID]; ok && cur == e {
		delete(p.sessions, conversationID)
	}
	p.mu.Unlock()
}

func (p *Pool) sweepLoop() {
	defer p.wg.Done()
	ticker := time.NewTicker(p.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.sweep()
		}
	}
}

// sweep destroys sessions idle past expiry and reaps dead ones.
func (p *Pool) sweep() {
	now := time.Now()

	p.mu.Lock()
	var stale []*entry
	for id, e := range p.sessions {
		select {
		case <-e.ready:
		default:
			continue // still being created
		}
		if e.session == nil {
			continue
		}
		if !e.session.Alive() || now.Sub(e.session.LastUsed()) > p.cfg.IdleExpiry {
			stale = append(stale, e)
			delete(p.sessions, id)
		}
	}
	p.mu.Unlock()

	for _, e := range stale {
		slog.Debug("Reaping shell session",
			"conversation_id", e.session.conversationID,
			"alive", e.session.Alive())
		e.session.Stop()
	}
}
