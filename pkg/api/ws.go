package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/parleyhq/parley/pkg/events"
)

// wsCatchupLimit caps how many missed events a catch-up replays before the
// client is told to do a full snapshot reload instead.
const wsCatchupLimit = 200

// ConnectionManager tracks WebSocket clients and bridges them onto the
// event bus. Each subscribe action attaches a bus subscription whose
// events a pump goroutine forwards to the socket.
type ConnectionManager struct {
	bus     *events.Bus
	catchup events.CatchupQuerier

	mu          sync.RWMutex
	connections map[string]*Connection

	// Write timeout for WebSocket sends
	writeTimeout time.Duration
}

// Connection represents a single WebSocket client.
//
// subs is accessed only from the goroutine running HandleConnection (the
// read loop and its deferred cleanup) and from pump goroutines via
// dropSubscription, so it carries its own mutex.
type Connection struct {
	ID   string
	conn *websocket.Conn
	ctx  context.Context

	// Serializes socket writes: pumps, catch-up, and control messages all
	// write concurrently.
	writeMu sync.Mutex

	subMu sync.Mutex
	subs  map[string]*events.Subscription
}

// NewConnectionManager creates a ConnectionManager. catchup may be nil,
// which disables event replay for reconnecting clients.
func NewConnectionManager(bus *events.Bus, catchup events.CatchupQuerier, writeTimeout time.Duration) *ConnectionManager {
	return &ConnectionManager{
		bus:          bus,
		catchup:      catchup,
		connections:  make(map[string]*Connection),
		writeTimeout: writeTimeout,
	}
}

// ActiveConnections returns the count of active WebSocket connections.
func (m *ConnectionManager) ActiveConnections() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

// HandleConnection manages the lifecycle of a single WebSocket connection.
// Called by the WebSocket HTTP handler after upgrade. Blocks until the
// connection closes.
func (m *ConnectionManager) HandleConnection(parentCtx context.Context, conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	c := &Connection{
		ID:   uuid.New().String(),
		conn: conn,
		ctx:  ctx,
		subs: make(map[string]*events.Subscription),
	}

	m.register(c)
	defer m.unregister(c)

	m.sendJSON(c, map[string]string{
		"type":          "connection.established",
		"connection_id": c.ID,
	})

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			// Connection closed — exit read loop
			return
		}

		var msg events.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("Invalid WebSocket message", "connection_id", c.ID, "error", err)
			continue
		}
		m.handleClientMessage(ctx, c, &msg)
	}
}

// handleClientMessage dispatches a client message to the appropriate handler.
func (m *ConnectionManager) handleClientMessage(ctx context.Context, c *Connection, msg *events.ClientMessage) {
	switch msg.Action {
	case "subscribe":
		if msg.Channel == "" {
			m.sendJSON(c, map[string]string{"type": "error", "message": "channel is required for subscribe"})
			return
		}
		if err := m.subscribe(c, msg.Channel); err != nil {
			m.sendJSON(c, map[string]string{
				"type":    "subscription.error",
				"channel": msg.Channel,
				"message": "failed to subscribe to channel",
			})
			return
		}
		m.sendJSON(c, map[string]string{
			"type":    "subscription.confirmed",
			"channel": msg.Channel,
		})
		// Auto catch-up: deliver all prior events so late subscribers start
		// from the beginning. Live events buffered meanwhile follow after;
		// clients dedupe on db_event_id.
		m.handleCatchup(ctx, c, msg.Channel, 0)

	case "unsubscribe":
		if msg.Channel == "" {
			m.sendJSON(c, map[string]string{"type": "error", "message": "channel is required for unsubscribe"})
			return
		}
		m.unsubscribe(c, msg.Channel)

	case "catchup":
		if msg.Channel == "" {
			m.sendJSON(c, map[string]string{"type": "error", "message": "channel is required for catchup"})
			return
		}
		if msg.LastEventID != nil {
			m.handleCatchup(ctx, c, msg.Channel, *msg.LastEventID)
		}

	case "ping":
		m.sendJSON(c, map[string]string{"type": "pong"})
	}
}

// subscribe attaches a bus subscription for the channel and starts its
// pump. The bus issues LISTEN synchronously for the first subscriber, so
// the subsequent auto-catchup runs with LISTEN already active and no event
// can fall between them.
func (m *ConnectionManager) subscribe(c *Connection, channel string) error {
	c.subMu.Lock()
	if _, exists := c.subs[channel]; exists {
		c.subMu.Unlock()
		return nil
	}
	c.subMu.Unlock()

	sub, err := m.bus.Subscribe(channel)
	if err != nil {
		slog.Error("Failed to subscribe to channel", "channel", channel, "error", err)
		return err
	}

	c.subMu.Lock()
	if _, exists := c.subs[channel]; exists {
		// Raced with another subscribe for the same channel.
		c.subMu.Unlock()
		sub.Close()
		return nil
	}
	c.subs[channel] = sub
	c.subMu.Unlock()

	go m.pump(c, channel, sub)
	return nil
}

// pump forwards bus events to the socket until the subscription closes.
// An overflow close tells the client to resync: its queue filled faster
// than the socket drained.
func (m *ConnectionManager) pump(c *Connection, channel string, sub *events.Subscription) {
	for payload := range sub.Events() {
		if err := m.sendRaw(c, payload); err != nil {
			slog.Warn("Failed to send to WebSocket client",
				"connection_id", c.ID, "channel", channel, "error", err)
			m.dropSubscription(c, channel, sub)
			return
		}
	}

	if sub.Overflowed() {
		m.dropSubscription(c, channel, sub)
		m.sendJSON(c, map[string]string{
			"type":    "subscription.error",
			"channel": channel,
			"message": "event queue overflowed; re-subscribe to resync",
		})
	}
}

// unsubscribe detaches the channel's bus subscription, which ends its pump.
func (m *ConnectionManager) unsubscribe(c *Connection, channel string) {
	c.subMu.Lock()
	sub, exists := c.subs[channel]
	delete(c.subs, channel)
	c.subMu.Unlock()
	if exists {
		sub.Close()
	}
}

// dropSubscription removes a subscription only if it is still the one
// registered for the channel, so a re-subscribe is not clobbered.
func (m *ConnectionManager) dropSubscription(c *Connection, channel string, sub *events.Subscription) {
	c.subMu.Lock()
	if current, exists := c.subs[channel]; exists && current == sub {
		delete(c.subs, channel)
	}
	c.subMu.Unlock()
	sub.Close()
}

// handleCatchup sends missed events since lastEventID to the client.
func (m *ConnectionManager) handleCatchup(ctx context.Context, c *Connection, channel string, lastEventID int) {
	if m.catchup == nil {
		return
	}

	evts, err := m.catchup.GetCatchupEvents(ctx, channel, lastEventID, wsCatchupLimit)
	if err != nil {
		slog.Error("Catchup query failed", "channel", channel, "error", err)
		return
	}

	// Send missed events in order, injecting db_event_id for position
	// tracking — the stored payload doesn't carry it.
	for _, evt := range evts {
		payload, err := events.MarshalCatchupPayload(evt)
		if err != nil {
			continue
		}
		if err := m.sendRaw(c, payload); err != nil {
			slog.Warn("Failed to send catchup event", "connection_id", c.ID, "error", err)
			return
		}
	}

	// A full page means more events may exist; the client should reload
	// the snapshot instead of paginating catchup requests.
	if len(evts) == wsCatchupLimit {
		m.sendJSON(c, map[string]any{
			"type":     "catchup.overflow",
			"channel":  channel,
			"has_more": true,
		})
	}
}

func (m *ConnectionManager) register(c *Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connections[c.ID] = c
}

// unregister removes a connection and closes all its subscriptions.
func (m *ConnectionManager) unregister(c *Connection) {
	c.subMu.Lock()
	subs := make([]*events.Subscription, 0, len(c.subs))
	for _, sub := range c.subs {
		subs = append(subs, sub)
	}
	c.subs = make(map[string]*events.Subscription)
	c.subMu.Unlock()
	for _, sub := range subs {
		sub.Close()
	}

	m.mu.Lock()
	delete(m.connections, c.ID)
	m.mu.Unlock()

	_ = c.conn.Close(websocket.StatusNormalClosure, "")
}

// sendJSON marshals and sends a JSON message to a single connection.
func (m *ConnectionManager) sendJSON(c *Connection, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("Failed to marshal WebSocket message", "connection_id", c.ID, "error", err)
		return
	}
	if err := m.sendRaw(c, data); err != nil {
		slog.Warn("Failed to send WebSocket message", "connection_id", c.ID, "error", err)
	}
}

// sendRaw sends raw bytes to a single connection with a write timeout.
func (m *ConnectionManager) sendRaw(c *Connection, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	writeCtx, cancel := context.WithTimeout(c.ctx, m.writeTimeout)
	defer cancel()
	return c.conn.Write(writeCtx, websocket.MessageText, data)
}
