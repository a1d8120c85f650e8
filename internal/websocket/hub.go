package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"shortscope-backend/internal/models"
)

const (
	channelPrefix = "run_updates:"
	writeWait     = 10 * time.Second
	subscribeWait = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// client serialises writes; gorilla connections allow one concurrent writer.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub streams pipeline progress to WebSocket clients subscribed to a run.
// With a Redis client, events fan out through pub/sub so a client connected
// to any replica sees runs executed on another.
type Hub struct {
	mu            sync.RWMutex
	connections   map[uuid.UUID][]*client
	redisClient   *redis.Client
	subscriptions map[uuid.UUID]*subscription
}

// subscription is one Redis channel subscription shared by every local
// connection to a run. ready closes once the subscription is confirmed.
type subscription struct {
	cancel context.CancelFunc
	ready  chan struct{}
}

// NewHub accepts a nil redisClient for single-process delivery.
func NewHub(redisClient *redis.Client) *Hub {
	return &Hub{
		connections:   make(map[uuid.UUID][]*client),
		redisClient:   redisClient,
		subscriptions: make(map[uuid.UUID]*subscription),
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(r.URL.Query().Get("run_id"))
	if err != nil {
		http.Error(w, "run_id must be a UUID", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn}
	h.registerConnection(runID, c)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(runID, c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// Subscribers returns the number of open connections for a run.
func (h *Hub) Subscribers(runID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[runID])
}

func (h *Hub) registerConnection(runID uuid.UUID, c *client) {
	h.mu.Lock()
	h.connections[runID] = append(h.connections[runID], c)
	total := len(h.connections[runID])
	sub, subscribed := h.subscriptions[runID]
	if !subscribed && h.redisClient != nil {
		ctx, cancel := context.WithCancel(context.Background())
		sub = &subscription{cancel: cancel, ready: make(chan struct{})}
		h.subscriptions[runID] = sub
		h.mu.Unlock()
		h.subscribe(ctx, runID, sub)
	} else {
		h.mu.Unlock()
		if sub != nil {
			<-sub.ready
		}
	}

	log.Printf("WebSocket connected: run %s (total: %d)", runID, total)
}

func (h *Hub) unregisterConnection(runID uuid.UUID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.conn.Close()

	conns := h.connections[runID]
	for i, existing := range conns {
		if existing == c {
			h.connections[runID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(h.connections[runID]) == 0 {
		delete(h.connections, runID)
		if sub, ok := h.subscriptions[runID]; ok {
			sub.cancel()
			delete(h.subscriptions, runID)
		}
	}

	log.Printf("WebSocket disconnected: run %s", runID)
}

// subscribe returns once Redis has confirmed the channel subscription, so
// events published after registration reach this replica. An unconfirmed
// subscription is kept; go-redis resubscribes when the connection recovers.
func (h *Hub) subscribe(ctx context.Context, runID uuid.UUID, sub *subscription) {
	defer close(sub.ready)

	pubsub := h.redisClient.Subscribe(ctx, channelPrefix+runID.String())

	confirmCtx, cancel := context.WithTimeout(ctx, subscribeWait)
	defer cancel()
	if _, err := pubsub.Receive(confirmCtx); err != nil {
		log.Printf("Redis subscribe not confirmed: run %s: %v", runID, err)
	}

	go h.forward(ctx, runID, pubsub)
}

func (h *Hub) forward(ctx context.Context, runID uuid.UUID, pubsub *redis.PubSub) {
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(runID, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(runID uuid.UUID, data []byte) {
	h.mu.RLock()
	clients := append([]*client(nil), h.connections[runID]...)
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			log.Printf("WebSocket write failed: run %s: %v", runID, err)
		}
	}
}

// Publish delivers msg to every subscriber of runID. A failed Redis publish
// falls back to local delivery.
func (h *Hub) Publish(runID uuid.UUID, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if h.redisClient != nil {
		err := h.redisClient.Publish(context.Background(), channelPrefix+runID.String(), data).Err()
		if err == nil {
			return
		}
		log.Printf("Redis publish failed: run %s: %v", runID, err)
	}
	h.broadcast(runID, data)
}

func (h *Hub) ReportStage(runID uuid.UUID, update models.StageUpdate) {
	h.Publish(runID, models.WSMessage{Type: models.WSTypeStage, Payload: update})
}

func (h *Hub) Completed(result *models.SearchResult) {
	h.Publish(result.RunID, models.WSMessage{
		Type: models.WSTypeCompleted,
		Payload: models.CompletedEvent{
			RunID:   result.RunID,
			Count:   result.Count,
			Outcome: result.Outcome,
		},
	})
}

func (h *Hub) Failed(runID uuid.UUID, code, message string) {
	h.Publish(runID, models.WSMessage{
		Type: models.WSTypeError,
		Payload: models.ErrorEvent{
			RunID:        runID,
			ErrorCode:    code,
			ErrorMessage: message,
		},
	})
}
