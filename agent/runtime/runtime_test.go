package runtime

import (
	"context"
	"errors"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/voxdesk/voxdesk/agent/contract"
)

type fakeToolCallingModel struct {
	responses []*schema.Message
	err       error
	idx       int
	seen      [][]*schema.Message
}

func (f *fakeToolCallingModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.seen = append(f.seen, input)
	if f.err != nil {
		return nil, f.err
	}
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeToolCallingModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func (f *fakeToolCallingModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	return f, nil
}

func echoExecutor(calls *[]string) contractx.Executor {
	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		*calls = append(*calls, tool)
		return contractx.ToolResult{Tool: tool, Reply: "done: " + tool}, nil
	}
}

func TestTurnPlainReply(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Role: schema.Assistant, Content: "Welcome to Brew & Bean!"},
		},
	}

	var calls []string
	session, err := New(fake, "be the barista", nil, echoExecutor(&calls))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	reply, err := session.Turn(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Turn() error = %v", err)
	}
	if reply != "Welcome to Brew & Bean!" {
		t.Fatalf("reply = %q", reply)
	}
	if len(calls) != 0 {
		t.Fatalf("unexpected tool calls: %v", calls)
	}
}

func TestTurnDispatchesToolCallsThenReplies(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{
				Role: schema.Assistant,
				ToolCalls: []schema.ToolCall{
					{ID: "c1", Function: schema.FunctionCall{Name: "update_drink_type", Arguments: `{"drink_type":"latte"}`}},
					{ID: "c2", Function: schema.FunctionCall{Name: "update_size", Arguments: `{"size":"large"}`}},
				},
			},
			{Role: schema.Assistant, Content: "One large latte coming up!"},
		},
	}

	var calls []string
	session, err := New(fake, "be the barista", nil, echoExecutor(&calls))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	reply, err := session.Turn(context.Background(), "a large latte please")
	if err != nil {
		t.Fatalf("Turn() error = %v", err)
	}
	if reply != "One large latte coming up!" {
		t.Fatalf("reply = %q", reply)
	}
	if len(calls) != 2 || calls[0] != "update_drink_type" || calls[1] != "update_size" {
		t.Fatalf("tool calls = %v", calls)
	}

	// The second generation sees the tool results in the history.
	final := fake.seen[len(fake.seen)-1]
	var toolMessages int
	for _, msg := range final {
		if msg.Role == schema.Tool {
			toolMessages++
			if !strings.Contains(msg.Content, "done:") {
				t.Fatalf("tool message content = %q", msg.Content)
			}
		}
	}
	if toolMessages != 2 {
		t.Fatalf("tool messages in history = %d", toolMessages)
	}
}

func TestTurnHistoryPersistsAcrossTurns(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Role: schema.Assistant, Content: "first"},
			{Role: schema.Assistant, Content: "second"},
		},
	}

	var calls []string
	session, err := New(fake, "instructions", nil, echoExecutor(&calls))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := session.Turn(context.Background(), "one"); err != nil {
		t.Fatal(err)
	}
	if _, err := session.Turn(context.Background(), "two"); err != nil {
		t.Fatal(err)
	}

	// system + user + assistant + user at the second generation.
	second := fake.seen[1]
	if len(second) != 4 || second[0].Role != schema.System || second[3].Content != "two" {
		t.Fatalf("second turn history = %#v", second)
	}
}

func TestTurnErrors(t *testing.T) {
	t.Parallel()

	var calls []string

	session, err := New(&fakeToolCallingModel{err: errors.New("boom")}, "i", nil, echoExecutor(&calls))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := session.Turn(context.Background(), "hi"); !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("model error = %v", err)
	}

	session, err = New(&fakeToolCallingModel{responses: []*schema.Message{{Role: schema.Assistant, Content: "   "}}}, "i", nil, echoExecutor(&calls))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := session.Turn(context.Background(), "hi"); !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("empty reply error = %v", err)
	}

	session, err = New(&fakeToolCallingModel{responses: []*schema.Message{{
		Role:      schema.Assistant,
		ToolCalls: []schema.ToolCall{{ID: "c1", Function: schema.FunctionCall{Name: "t", Arguments: "{not json"}}},
	}}}, "i", nil, echoExecutor(&calls))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := session.Turn(context.Background(), "hi"); !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("bad args error = %v", err)
	}
}
