package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeListener records LISTEN/UNLISTEN calls for bus wiring tests.
type fakeListener struct {
	mu          sync.Mutex
	subscribed  []string
	unsubbed    []string
	failListen  bool
	unsubNotify chan string
}

func (f *fakeListener) Subscribe(_ context.Context, channel string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failListen {
		return fmt.Errorf("listen refused")
	}
	f.subscribed = append(f.subscribed, channel)
	return nil
}

func (f *fakeListener) Unsubscribe(_ context.Context, channel string) error {
	f.mu.Lock()
	f.unsubbed = append(f.unsubbed, channel)
	notify := f.unsubNotify
	f.mu.Unlock()
	if notify != nil {
		notify <- channel
	}
	return nil
}

func (f *fakeListener) listenCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.subscribed...)
}

func TestBusDeliverFanOut(t *testing.T) {
	bus := NewBus()
	sub1, err := bus.Subscribe("conversation:a")
	require.NoError(t, err)
	sub2, err := bus.Subscribe("conversation:a")
	require.NoError(t, err)
	other, err := bus.Subscribe("conversation:b")
	require.NoError(t, err)
	defer sub1.Close()
	defer sub2.Close()
	defer other.Close()

	bus.Deliver("conversation:a", []byte(`{"type":"message.created"}`))

	for _, sub := range []*Subscription{sub1, sub2} {
		select {
		case payload := <-sub.Events():
			assert.JSONEq(t, `{"type":"message.created"}`, string(payload))
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}

	select {
	case <-other.Events():
		t.Fatal("subscriber on another channel received event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBusDeliverPreservesOrder(t *testing.T) {
	bus := NewBus()
	sub, err := bus.Subscribe("conversation:a")
	require.NoError(t, err)
	defer sub.Close()

	for i := 0; i < 10; i++ {
		bus.Deliver("conversation:a", []byte(fmt.Sprintf(`{"seq":%d}`, i)))
	}

	for i := 0; i < 10; i++ {
		select {
		case payload := <-sub.Events():
			var got struct {
				Seq int `json:"seq"`
			}
			require.NoError(t, json.Unmarshal(payload, &got))
			assert.Equal(t, i, got.Seq)
		case <-time.After(time.Second):
			t.Fatal("missing event")
		}
	}
}

func TestBusOverflowClosesSubscriber(t *testing.T) {
	bus := NewBus()
	slow, err := bus.Subscribe("conversation:a")
	require.NoError(t, err)
	fast, err := bus.Subscribe("conversation:a")
	require.NoError(t, err)
	defer fast.Close()

	// Read the fast subscriber after every delivery so only the deliberately
	// unread one can fill up.
	for i := 0; i < subscriberQueueSize+10; i++ {
		bus.Deliver("conversation:a", []byte(`{}`))
		select {
		case _, ok := <-fast.Events():
			require.True(t, ok, "fast subscriber closed unexpectedly")
		case <-time.After(time.Second):
			t.Fatal("fast subscriber starved")
		}
	}

	// The slow subscriber's channel must be closed with Overflowed set.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-slow.Events():
			if !ok {
				assert.True(t, slow.Overflowed())
				assert.Equal(t, 1, bus.SubscriberCount("conversation:a"))
				bus.Shutdown()
				return
			}
		case <-deadline:
			t.Fatal("slow subscriber was not closed on overflow")
		}
	}
}

func TestBusFirstSubscribeTriggersListen(t *testing.T) {
	bus := NewBus()
	fl := &fakeListener{}
	bus.SetListener(fl)

	sub1, err := bus.Subscribe("conversation:a")
	require.NoError(t, err)
	sub2, err := bus.Subscribe("conversation:a")
	require.NoError(t, err)

	// Only the first subscriber issues LISTEN.
	assert.Equal(t, []string{"conversation:a"}, fl.listenCalls())

	fl.mu.Lock()
	fl.unsubNotify = make(chan string, 1)
	fl.mu.Unlock()

	sub1.Close()
	select {
	case <-fl.unsubNotify:
		t.Fatal("UNLISTEN issued while a subscriber remains")
	case <-time.After(50 * time.Millisecond):
	}

	sub2.Close()
	select {
	case ch := <-fl.unsubNotify:
		assert.Equal(t, "conversation:a", ch)
	case <-time.After(time.Second):
		t.Fatal("UNLISTEN not issued after last subscriber left")
	}
}

func TestBusListenFailureRollsBackSubscription(t *testing.T) {
	bus := NewBus()
	bus.SetListener(&fakeListener{failListen: true})

	sub, err := bus.Subscribe("conversation:a")
	require.Error(t, err)
	assert.Nil(t, sub)
	assert.Equal(t, 0, bus.SubscriberCount("conversation:a"))
}

func TestBusShutdownClosesAll(t *testing.T) {
	bus := NewBus()
	sub, err := bus.Subscribe("conversation:a")
	require.NoError(t, err)

	bus.Shutdown()

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed on shutdown")
	}
	assert.False(t, sub.Overflowed())
}
