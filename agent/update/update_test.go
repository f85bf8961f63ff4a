package update

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestEmitterWrapsTypeAndData(t *testing.T) {
	t.Parallel()

	sink := NewMemorySink()
	e := NewEmitter(sink, "coffee")

	e.Emit(context.Background(), "order_state", map[string]any{"drink": "latte"})

	msgs := sink.Messages()
	if len(msgs) != 1 {
		t.Fatalf("messages = %d", len(msgs))
	}
	if msgs[0].Topic != "coffee" {
		t.Fatalf("topic = %q", msgs[0].Topic)
	}

	var envelope struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(msgs[0].Payload, &envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Type != "order_state" || envelope.Data["drink"] != "latte" {
		t.Fatalf("envelope = %+v", envelope)
	}
}

func TestEmitterNilSinkIsSafe(t *testing.T) {
	t.Parallel()

	e := NewEmitter(nil, "coffee")
	e.Emit(context.Background(), "order_state", nil)
}

func TestHubBroadcastsToTopicSubscribers(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/updates/grocery"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	// Subscription registration races the dial return; retry briefly.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if err := hub.Publish(context.Background(), "grocery", []byte(`{"type":"cart_state"}`)); err != nil {
			t.Fatal(err)
		}
		conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		if _, msg, err := conn.ReadMessage(); err == nil {
			if string(msg) != `{"type":"cart_state"}` {
				t.Fatalf("message = %q", msg)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("no broadcast received")
		}
	}
}

func TestFanoutDeliversToAllSinks(t *testing.T) {
	t.Parallel()

	a, b := NewMemorySink(), NewMemorySink()
	f := Fanout{a, failSink{}, b}

	if err := f.Publish(context.Background(), "sdr", []byte("x")); err == nil {
		t.Fatal("expected joined error from failing sink")
	}
	if len(a.Messages()) != 1 || len(b.Messages()) != 1 {
		t.Fatalf("deliveries = %d, %d", len(a.Messages()), len(b.Messages()))
	}
}

type failSink struct{}

func (failSink) Publish(ctx context.Context, topic string, payload []byte) error {
	return errors.New("down")
}

func TestHubIgnoresOtherTopics(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	if err := hub.Publish(context.Background(), "nobody-listens", []byte("x")); err != nil {
		t.Fatal(err)
	}
}
