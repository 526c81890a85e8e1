package goVault

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Event is a structured audit record emitted by the vault. The event log is
// append-only and success-only: failed operations leave no record.
type Event struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	Vault     string            `json:"vault,omitempty"`
	Actor     string            `json:"actor,omitempty"`
	Amount    string            `json:"amount,omitempty"`
	IP        string            `json:"ip,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Sink receives [Event] values from the vault’s audit dispatcher.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink is a [Sink] that silently discards all events.
type NoOpSink struct{}

// Emit describes the emit operation and its observable behavior.
func (NoOpSink) Emit(context.Context, Event) {}

// ChannelSink is a buffered channel-based [Sink].
type ChannelSink struct {
	events chan Event
}

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan Event, buffer),
	}
}

// Emit describes the emit operation and its observable behavior.
func (s *ChannelSink) Emit(ctx context.Context, event Event) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events returns the receive side of the sink’s channel.
func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// JSONWriterSink is a [Sink] that writes JSON-encoded events to an [io.Writer],
// one event per line.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

// Emit describes the emit operation and its observable behavior.
func (s *JSONWriterSink) Emit(ctx context.Context, event Event) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
