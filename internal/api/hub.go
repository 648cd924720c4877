package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	queue "github.com/shqio/shq"
	"github.com/shqio/shq/internal"
)

const broadcastInterval = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type delivery struct {
	conn    *websocket.Conn
	payload []byte
}

// Hub periodically samples queue.Observer.StatusSummary and fans the
// snapshot out to every connected /ws/status client.
//
// Each per-client send is dispatched through an internal.WorkerPool so a
// slow or stalled client's WriteMessage call cannot delay delivery to
// the others, and so the number of concurrent writes is bounded
// regardless of how many clients are connected.
type Hub struct {
	observer queue.Observer
	log      *slog.Logger
	pool     *internal.WorkerPool[delivery]
	ticker   internal.TimerTask

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewHub creates a Hub sampling observer for status snapshots.
func NewHub(observer queue.Observer, log *slog.Logger) *Hub {
	return &Hub{
		observer: observer,
		log:      log,
		pool:     internal.NewWorkerPool[delivery](8, 64, log),
		conns:    make(map[*websocket.Conn]struct{}),
	}
}

// Start begins the periodic broadcast loop. It returns immediately;
// broadcasting runs until ctx is canceled.
func (h *Hub) Start(ctx context.Context) {
	h.pool.Start(ctx, h.send)
	h.ticker.Start(ctx, h.broadcast, broadcastInterval)
}

func (h *Hub) send(_ context.Context, d delivery) {
	if err := d.conn.WriteMessage(websocket.TextMessage, d.payload); err != nil {
		h.log.Debug("websocket write failed, dropping client", "err", err)
		h.unregister(d.conn)
	}
}

func (h *Hub) broadcast(ctx context.Context) {
	summary, err := h.observer.StatusSummary(ctx)
	if err != nil {
		h.log.Error("status summary failed", "err", err)
		return
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		h.log.Error("status summary marshal failed", "err", err)
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		h.pool.Push(delivery{conn: c, payload: payload})
	}
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.conns[conn]
	delete(h.conns, conn)
	h.mu.Unlock()
	if ok {
		_ = conn.Close()
	}
}

// HandleWebSocket upgrades the connection and registers it to receive
// periodic status snapshots until it disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "err", err)
		return
	}
	h.register(conn)

	// Drain and discard any client messages; this also detects
	// disconnects since ReadMessage returns an error once the
	// connection is closed.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.unregister(conn)
			return
		}
	}
}
