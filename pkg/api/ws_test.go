package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/pkg/events"
)

// fakeCatchup serves a fixed event log per channel.
type fakeCatchup struct {
	events map[string][]events.CatchupEvent
}

func (f *fakeCatchup) GetCatchupEvents(_ context.Context, channel string, sinceID, limit int) ([]events.CatchupEvent, error) {
	var out []events.CatchupEvent
	for _, evt := range f.events[channel] {
		if evt.ID > sinceID {
			out = append(out, evt)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type wsClient struct {
	conn *websocket.Conn
	ctx  context.Context
}

func dialWS(t *testing.T, bus *events.Bus, catchup events.CatchupQuerier) *wsClient {
	t.Helper()
	mgr := NewConnectionManager(bus, catchup, 5*time.Second)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		mgr.HandleConnection(r.Context(), conn)
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })

	return &wsClient{conn: conn, ctx: ctx}
}

func (c *wsClient) send(t *testing.T, msg events.ClientMessage) {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, c.conn.Write(c.ctx, websocket.MessageText, data))
}

func (c *wsClient) read(t *testing.T) map[string]any {
	t.Helper()
	_, data, err := c.conn.Read(c.ctx)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestWSSubscribeAndReceive(t *testing.T) {
	bus := events.NewBus()
	client := dialWS(t, bus, nil)

	hello := client.read(t)
	assert.Equal(t, "connection.established", hello["type"])
	assert.NotEmpty(t, hello["connection_id"])

	channel := events.ConversationChannel("conv-1")
	client.send(t, events.ClientMessage{Action: "subscribe", Channel: channel})

	confirmed := client.read(t)
	assert.Equal(t, "subscription.confirmed", confirmed["type"])
	assert.Equal(t, channel, confirmed["channel"])

	// A live event published to the channel reaches the socket.
	require.Eventually(t, func() bool {
		return bus.SubscriberCount(channel) == 1
	}, 2*time.Second, 10*time.Millisecond)
	bus.Deliver(channel, []byte(`{"type":"block.delta","delta":"hi"}`))

	got := client.read(t)
	assert.Equal(t, "block.delta", got["type"])
	assert.Equal(t, "hi", got["delta"])
}

func TestWSSubscribeRunsCatchup(t *testing.T) {
	bus := events.NewBus()
	channel := events.ConversationChannel("conv-2")
	catchup := &fakeCatchup{events: map[string][]events.CatchupEvent{
		channel: {
			{ID: 1, Payload: map[string]any{"type": "message.created"}},
			{ID: 2, Payload: map[string]any{"type": "block.end"}},
		},
	}}
	client := dialWS(t, bus, catchup)
	client.read(t) // connection.established

	client.send(t, events.ClientMessage{Action: "subscribe", Channel: channel})
	client.read(t) // subscription.confirmed

	first := client.read(t)
	assert.Equal(t, "message.created", first["type"])
	assert.Equal(t, float64(1), first["db_event_id"])

	second := client.read(t)
	assert.Equal(t, "block.end", second["type"])
	assert.Equal(t, float64(2), second["db_event_id"])
}

func TestWSCatchupSinceID(t *testing.T) {
	bus := events.NewBus()
	channel := events.ConversationChannel("conv-3")
	catchup := &fakeCatchup{events: map[string][]events.CatchupEvent{
		channel: {
			{ID: 5, Payload: map[string]any{"type": "message.created"}},
			{ID: 9, Payload: map[string]any{"type": "message.updated"}},
		},
	}}
	client := dialWS(t, bus, catchup)
	client.read(t) // connection.established

	since := 5
	client.send(t, events.ClientMessage{Action: "catchup", Channel: channel, LastEventID: &since})

	got := client.read(t)
	assert.Equal(t, "message.updated", got["type"])
	assert.Equal(t, float64(9), got["db_event_id"])
}

func TestWSPing(t *testing.T) {
	bus := events.NewBus()
	client := dialWS(t, bus, nil)
	client.read(t) // connection.established

	client.send(t, events.ClientMessage{Action: "ping"})
	assert.Equal(t, "pong", client.read(t)["type"])
}

func TestWSSubscribeRequiresChannel(t *testing.T) {
	bus := events.NewBus()
	client := dialWS(t, bus, nil)
	client.read(t) // connection.established

	client.send(t, events.ClientMessage{Action: "subscribe"})
	got := client.read(t)
	assert.Equal(t, "error", got["type"])
}

func TestWSUnsubscribeStopsDelivery(t *testing.T) {
	bus := events.NewBus()
	client := dialWS(t, bus, nil)
	client.read(t) // connection.established

	channel := events.ConversationChannel("conv-4")
	client.send(t, events.ClientMessage{Action: "subscribe", Channel: channel})
	client.read(t) // subscription.confirmed

	require.Eventually(t, func() bool {
		return bus.SubscriberCount(channel) == 1
	}, 2*time.Second, 10*time.Millisecond)

	client.send(t, events.ClientMessage{Action: "unsubscribe", Channel: channel})
	require.Eventually(t, func() bool {
		return bus.SubscriberCount(channel) == 0
	}, 2*time.Second, 10*time.Millisecond)

	// Deliveries after unsubscribe never reach the socket; a ping drains
	// through first if anything were pending.
	bus.Deliver(channel, []byte(`{"type":"block.delta"}`))
	client.send(t, events.ClientMessage{Action: "ping"})
	assert.Equal(t, "pong", client.read(t)["type"])
}
