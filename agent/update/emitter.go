// Package update delivers frontend state snapshots. Delivery is fire
// and forget: a tool call never fails because a listener was down.
package update

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/voxdesk/voxdesk/agent/contract"
	logx "github.com/voxdesk/voxdesk/pkg/logger"
)

type Emitter struct {
	sink   contract.Sink
	topic  string
	logger zerolog.Logger
}

func NewEmitter(sink contract.Sink, topic string) *Emitter {
	if sink == nil {
		sink = NoopSink{}
	}
	return &Emitter{
		sink:   sink,
		topic:  topic,
		logger: logx.Component("update"),
	}
}

// Emit publishes a typed snapshot to the emitter's topic. Failures are
// logged and swallowed.
func (e *Emitter) Emit(ctx context.Context, updateType string, data any) {
	payload, err := json.Marshal(contract.Update{Type: updateType, Data: data})
	if err != nil {
		e.logger.Error().Err(err).Str("update_type", updateType).Msg("marshal update")
		return
	}

	if err := e.sink.Publish(ctx, e.topic, payload); err != nil {
		e.logger.Warn().Err(err).
			Str("topic", e.topic).
			Str("update_type", updateType).
			Msg("publish update")
	}
}
