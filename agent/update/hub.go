package update

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	logx "github.com/voxdesk/voxdesk/pkg/logger"
)

const hubWriteTimeout = 5 * time.Second

// Hub broadcasts updates to websocket subscribers. Clients connect
// with GET /updates/{topic} and receive every payload published to
// that topic; a dead connection is dropped on the first failed write.
type Hub struct {
	mu       sync.Mutex
	subs     map[string]map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logx.Component("update.hub"),
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	topic := strings.Trim(strings.TrimPrefix(r.URL.Path, "/updates"), "/")
	if topic == "" {
		http.Error(w, "topic is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.add(topic, conn)
	h.logger.Debug().Str("topic", topic).Msg("subscriber connected")

	// Drain the connection so close frames are processed; subscribers
	// are not expected to send anything.
	go func() {
		defer h.remove(topic, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) Publish(ctx context.Context, topic string, payload []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.subs[topic] {
		_ = conn.SetWriteDeadline(time.Now().Add(hubWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Debug().Err(err).Str("topic", topic).Msg("dropping subscriber")
			conn.Close()
			delete(h.subs[topic], conn)
		}
	}
	return nil
}

func (h *Hub) add(topic string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[topic] == nil {
		h.subs[topic] = make(map[*websocket.Conn]struct{})
	}
	h.subs[topic][conn] = struct{}{}
}

func (h *Hub) remove(topic string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[topic][conn]; ok {
		delete(h.subs[topic], conn)
		conn.Close()
	}
}
