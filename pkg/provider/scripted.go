package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// ScriptEntry defines one scripted stream returned by ScriptedProvider.
type ScriptEntry struct {
	// Response content (exactly one of Events/Text/Error should be set).
	Events []Event // pre-built events, sent in order
	Text   string  // shorthand: wrapped as a complete single text block turn
	Error  error   // returned from Stream() before any event

	// Test control.
	BlockUntilCancelled bool            // hold the stream open until ctx is cancelled
	HoldOpen            bool            // send the events, then hold the stream open until ctx is cancelled
	WaitCh              <-chan struct{} // block before sending events until closed
	OnBlock             chan<- struct{} // notified when the entry enters its blocking path
}

// ScriptedProvider implements Provider from a pre-recorded script, consumed
// one entry per Stream call. Used by engine and coordinator tests.
type ScriptedProvider struct {
	mu       sync.Mutex
	entries  []ScriptEntry
	index    int
	captured []*Request
}

// NewScriptedProvider creates an empty scripted provider.
func NewScriptedProvider() *ScriptedProvider {
	return &ScriptedProvider{}
}

// Add appends a script entry.
func (p *ScriptedProvider) Add(entry ScriptEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, entry)
}

// AddText appends a plain single-text-block response.
func (p *ScriptedProvider) AddText(text string) {
	p.Add(ScriptEntry{Text: text})
}

// CallCount returns how many Stream calls were made.
func (p *ScriptedProvider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.captured)
}

// Requests returns the captured requests in call order.
func (p *ScriptedProvider) Requests() []*Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Request, len(p.captured))
	copy(out, p.captured)
	return out
}

// Stream implements Provider.
func (p *ScriptedProvider) Stream(ctx context.Context, req *Request) (<-chan Event, error) {
	p.mu.Lock()
	p.captured = append(p.captured, req)
	if p.index >= len(p.entries) {
		n := p.index
		p.mu.Unlock()
		return nil, fmt.Errorf("ScriptedProvider: no more entries (call %d)", n+1)
	}
	entry := p.entries[p.index]
	p.index++
	p.mu.Unlock()

	if entry.Error != nil {
		return nil, entry.Error
	}

	if entry.BlockUntilCancelled {
		ch := make(chan Event)
		if entry.OnBlock != nil {
			entry.OnBlock <- struct{}{}
		}
		go func() {
			<-ctx.Done()
			close(ch)
		}()
		return ch, nil
	}

	events := entry.Events
	if len(events) == 0 && entry.Text != "" {
		events = TextTurn(entry.Text)
	}

	ch := make(chan Event, len(events))
	go func() {
		defer close(ch)
		if entry.WaitCh != nil {
			if entry.OnBlock != nil {
				entry.OnBlock <- struct{}{}
			}
			select {
			case <-entry.WaitCh:
			case <-ctx.Done():
				return
			}
		}
		for _, ev := range events {
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
		if entry.HoldOpen {
			if entry.OnBlock != nil {
				entry.OnBlock <- struct{}{}
			}
			<-ctx.Done()
		}
	}()
	return ch, nil
}

// TextTurn builds the full event sequence for a single-text-block response,
// one delta per chunk of text.
func TextTurn(chunks ...string) []Event {
	events := []Event{
		{Type: EventMessageStart},
		{Type: EventContentBlockStart, Index: 0, BlockType: BlockText},
	}
	for _, c := range chunks {
		events = append(events, Event{
			Type: EventContentBlockDelta, Index: 0, Delta: DeltaText, Text: c,
		})
	}
	events = append(events,
		Event{Type: EventContentBlockStop, Index: 0},
		Event{Type: EventMessageDelta, StopReason: "end_turn", Usage: &Usage{InputTokens: 10, OutputTokens: 5}},
		Event{Type: EventMessageStop},
	)
	return events
}

// ToolUseTurn builds the event sequence for a response containing optional
// leading text followed by one tool_use block whose input JSON is streamed
// in the given fragments.
func ToolUseTurn(text, toolUseID, toolName string, jsonFragments ...string) []Event {
	events := []Event{{Type: EventMessageStart}}
	idx := 0
	if text != "" {
		events = append(events,
			Event{Type: EventContentBlockStart, Index: idx, BlockType: BlockText},
			Event{Type: EventContentBlockDelta, Index: idx, Delta: DeltaText, Text: text},
			Event{Type: EventContentBlockStop, Index: idx},
		)
		idx++
	}
	events = append(events, Event{
		Type: EventContentBlockStart, Index: idx,
		BlockType: BlockToolUse, ToolUseID: toolUseID, ToolName: toolName,
	})
	for _, f := range jsonFragments {
		events = append(events, Event{
			Type: EventContentBlockDelta, Index: idx, Delta: DeltaInputJSON, PartialJSON: f,
		})
	}
	events = append(events,
		Event{Type: EventContentBlockStop, Index: idx},
		Event{Type: EventMessageDelta, StopReason: "tool_use", Usage: &Usage{InputTokens: 20, OutputTokens: 15}},
		Event{Type: EventMessageStop},
	)
	return events
}

// ToolUseInput is a convenience for building single-fragment tool input.
func ToolUseInput(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// ErrorEvent builds a mid-stream failure event.
func ErrorEvent(msg string, retryable bool) Event {
	return Event{Type: EventError, ErrorMessage: msg, Retryable: retryable}
}
