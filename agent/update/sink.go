package update

import (
	"context"
	"errors"
	"sync"

	"github.com/voxdesk/voxdesk/agent/contract"
)

// NoopSink discards every update.
type NoopSink struct{}

func (NoopSink) Publish(ctx context.Context, topic string, payload []byte) error {
	return nil
}

// MemorySink buffers published updates in order, for tests and for
// local inspection.
type MemorySink struct {
	mu       sync.Mutex
	messages []Message
}

type Message struct {
	Topic   string
	Payload []byte
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Publish(ctx context.Context, topic string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(payload))
	copy(buf, payload)
	s.messages = append(s.messages, Message{Topic: topic, Payload: buf})
	return nil
}

func (s *MemorySink) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Fanout publishes to every sink and reports the joined failures. Each
// sink still receives the update even when an earlier one fails.
type Fanout []contract.Sink

func (f Fanout) Publish(ctx context.Context, topic string, payload []byte) error {
	var errs []error
	for _, sink := range f {
		if err := sink.Publish(ctx, topic, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
