// Package runtime drives one conversational session against a
// tool-calling chat model. Each user turn loops model generation and
// tool dispatch until the model answers in plain text.
package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	contractx "github.com/voxdesk/voxdesk/agent/contract"
	logx "github.com/voxdesk/voxdesk/pkg/logger"
)

// maxToolRounds bounds tool dispatch within a single user turn, so a
// model that keeps calling tools cannot spin the session forever.
const maxToolRounds = 5

// Session is a stateful conversation: the bound model, the executor for
// its tools, and the accumulated message history.
type Session struct {
	model   einomodel.ToolCallingChatModel
	execute contractx.Executor
	history []*schema.Message
	logger  zerolog.Logger
}

// New binds tools to the model and seeds the history with the persona
// instructions.
func New(model einomodel.ToolCallingChatModel, instructions string, tools []*schema.ToolInfo, execute contractx.Executor) (*Session, error) {
	bound, err := model.WithTools(tools)
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools: %v", contractx.ErrModelInvoke, err)
	}
	return &Session{
		model:   bound,
		execute: execute,
		history: []*schema.Message{schema.SystemMessage(instructions)},
		logger:  logx.Component("runtime"),
	}, nil
}

// Turn feeds one user message through the model, running any tool calls
// it makes, and returns the model's final spoken reply.
func (s *Session) Turn(ctx context.Context, userMessage string) (string, error) {
	s.history = append(s.history, schema.UserMessage(userMessage))

	for round := 0; round < maxToolRounds; round++ {
		msg, err := s.model.Generate(ctx, s.history)
		if err != nil {
			return "", fmt.Errorf("%w: generate: %v", contractx.ErrModelInvoke, err)
		}
		if msg == nil {
			return "", fmt.Errorf("%w: empty model response", contractx.ErrSchemaViolation)
		}
		s.history = append(s.history, msg)

		if len(msg.ToolCalls) == 0 {
			content := strings.TrimSpace(msg.Content)
			if content == "" {
				return "", fmt.Errorf("%w: model reply is empty", contractx.ErrSchemaViolation)
			}
			return content, nil
		}

		if err := s.runToolCalls(ctx, msg.ToolCalls); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: tool rounds exhausted", contractx.ErrSchemaViolation)
}

func (s *Session) runToolCalls(ctx context.Context, calls []schema.ToolCall) error {
	for _, call := range calls {
		tool := strings.TrimSpace(call.Function.Name)
		if tool == "" {
			return fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}

		args := map[string]any{}
		if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrSchemaViolation, tool, err)
			}
		}

		result, err := s.execute(ctx, tool, args)
		if err != nil {
			return fmt.Errorf("execute tool=%s: %w", tool, err)
		}
		s.logger.Debug().Str("tool", tool).Str("reply", result.Reply).Msg("tool dispatched")

		payload, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("%w: marshal result for tool=%s: %v", contractx.ErrValidation, tool, err)
		}
		s.history = append(s.history, schema.ToolMessage(string(payload), call.ID))
	}
	return nil
}
