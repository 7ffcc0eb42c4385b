package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// subscriberQueueSize bounds each subscriber's pending event queue. A
// subscriber that falls this far behind is closed rather than allowed to
// stall the publisher; closed subscribers are expected to re-attach with a
// snapshot + catch-up.
const subscriberQueueSize = 256

// busListenTimeout bounds how long a LISTEN command may block when the
// first subscriber of a channel arrives.
const busListenTimeout = 10 * time.Second

// ChannelListener is the LISTEN/UNLISTEN surface of NotifyListener, split
// out so the bus can run without PostgreSQL in tests.
type ChannelListener interface {
	Subscribe(ctx context.Context, channel string) error
	Unsubscribe(ctx context.Context, channel string) error
}

// Subscription is one live subscriber of a channel. Events() yields raw
// payload bytes; the channel is closed when the subscription is cancelled,
// the bus shuts down, or the subscriber overflows its queue.
type Subscription struct {
	bus     *Bus
	channel string
	ch      chan []byte

	closeOnce sync.Once
	// overflowed records why the channel closed, for the subscriber to
	// decide whether a re-attach with catch-up is needed.
	overflowed bool
	mu         sync.Mutex
}

// Events returns the subscriber's event stream.
func (s *Subscription) Events() <-chan []byte {
	return s.ch
}

// Overflowed reports whether the subscription was closed because the
// subscriber fell too far behind.
func (s *Subscription) Overflowed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overflowed
}

// Close detaches the subscriber. Safe to call repeatedly.
func (s *Subscription) Close() {
	s.bus.unsubscribe(s)
	s.closeOnce.Do(func() { close(s.ch) })
}

func (s *Subscription) closeOverflowed() {
	s.mu.Lock()
	s.overflowed = true
	s.mu.Unlock()
	s.closeOnce.Do(func() { close(s.ch) })
}

// Bus fans events out to in-process subscribers per channel. Remote pods'
// events arrive via the NotifyListener, local ones via the publisher; both
// enter through Deliver. When the first subscriber of a channel attaches,
// the bus issues LISTEN so remote events start flowing; the last detach
// issues UNLISTEN.
type Bus struct {
	mu       sync.Mutex
	channels map[string]map[*Subscription]struct{}

	listenerMu sync.RWMutex
	listener   ChannelListener
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		channels: make(map[string]map[*Subscription]struct{}),
	}
}

// SetListener wires the NOTIFY listener for dynamic LISTEN/UNLISTEN.
// Called once during startup; a nil listener keeps the bus process-local.
func (b *Bus) SetListener(l ChannelListener) {
	b.listenerMu.Lock()
	defer b.listenerMu.Unlock()
	b.listener = l
}

// Subscribe attaches a new subscriber to a channel. The first subscriber
// triggers LISTEN synchronously so no remote events are missed between
// catch-up and delivery.
func (b *Bus) Subscribe(channel string) (*Subscription, error) {
	sub := &Subscription{
		bus:     b,
		channel: channel,
		ch:      make(chan []byte, subscriberQueueSize),
	}

	b.mu.Lock()
	subs, exists := b.channels[channel]
	if !exists {
		subs = make(map[*Subscription]struct{})
		b.channels[channel] = subs
	}
	subs[sub] = struct{}{}
	needsListen := !exists
	b.mu.Unlock()

	if needsListen {
		b.listenerMu.RLock()
		l := b.listener
		b.listenerMu.RUnlock()
		if l != nil {
			ctx, cancel := context.WithTimeout(context.Background(), busListenTimeout)
			defer cancel()
			if err := l.Subscribe(ctx, channel); err != nil {
				b.unsubscribe(sub)
				sub.closeOnce.Do(func() { close(sub.ch) })
				return nil, err
			}
		}
	}
	return sub, nil
}

// Deliver fans a payload out to every subscriber of the channel. A full
// subscriber queue closes that subscriber instead of blocking delivery.
func (b *Bus) Deliver(channel string, payload []byte) {
	b.mu.Lock()
	subs := make([]*Subscription, 0, len(b.channels[channel]))
	for s := range b.channels[channel] {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	for _, s := range subs {
		select {
		case s.ch <- payload:
		default:
			slog.Warn("Subscriber queue overflow, closing subscriber",
				"channel", channel, "queue_size", subscriberQueueSize)
			b.unsubscribe(s)
			s.closeOverflowed()
		}
	}
}

// SubscriberCount returns the number of subscribers on a channel.
func (b *Bus) SubscriberCount(channel string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.channels[channel])
}

// Shutdown closes every subscription.
func (b *Bus) Shutdown() {
	b.mu.Lock()
	var all []*Subscription
	for ch, subs := range b.channels {
		for s := range subs {
			all = append(all, s)
		}
		delete(b.channels, ch)
	}
	b.mu.Unlock()

	for _, s := range all {
		s.closeOnce.Do(func() { close(s.ch) })
	}
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	subs, exists := b.channels[sub.channel]
	if exists {
		delete(subs, sub)
	}
	lastLeft := exists && len(subs) == 0
	if lastLeft {
		delete(b.channels, sub.channel)
	}
	b.mu.Unlock()

	if !lastLeft {
		return
	}
	b.listenerMu.RLock()
	l := b.listener
	b.listenerMu.RUnlock()
	if l == nil {
		return
	}
	// Re-check before UNLISTEN so a rapid unsubscribe/resubscribe cycle
	// does not drop an active LISTEN.
	go func() {
		b.mu.Lock()
		_, resubscribed := b.channels[sub.channel]
		b.mu.Unlock()
		if resubscribed {
			return
		}
		if err := l.Unsubscribe(context.Background(), sub.channel); err != nil {
			slog.Error("Failed to UNLISTEN channel", "channel", sub.channel, "error", err)
		}
	}()
}
