package contract

import "context"

// Executor dispatches a decoded tool call to an agent implementation.
type Executor func(ctx context.Context, tool string, args map[string]any) (ToolResult, error)

// Sink delivers a serialized update payload to a topic. Implementations
// are best-effort transports: the webhook publisher, the websocket hub,
// an in-memory buffer for tests.
type Sink interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}
