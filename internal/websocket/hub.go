package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"image-processing-be/internal/metrics"
	"image-processing-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RelayChannel is the Redis pub/sub channel shared by every instance.
const RelayChannel = "history_feed"

type relayMessage struct {
	Origin  string          `json:"origin"`
	Message json.RawMessage `json:"message"`
}

// Hub fans history feed messages out to every connected client and, when
// Redis is configured, to the hubs of other instances.
type Hub struct {
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	// Redis connection for cross-instance communication
	rdb        *redis.Client
	instanceID string

	metrics *metrics.Metrics
	logger  logger.ILogger
}

func NewHub(rdb *redis.Client, metrics *metrics.Metrics, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		metrics:    metrics,
		logger:     log,
	}
}

// Run processes registrations until ctx is cancelled, then closes every
// remaining client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.metrics.FeedClients(n)
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"client_id": client.ID, "clients": n})

		case client := <-h.unregister:
			h.remove(client)

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.metrics.FeedClients(0)
			return
		}
	}
}

// Register returns false if the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.Send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.metrics.FeedClients(n)
		h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"client_id": client.ID, "clients": n})
	}
}

// ClientCount reports the number of locally connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends data to all local clients and relays it to other instances.
func (h *Hub) Broadcast(data []byte) {
	h.deliver(data)

	if h.rdb != nil {
		payload, err := json.Marshal(relayMessage{Origin: h.instanceID, Message: data})
		if err != nil {
			h.logger.Warn("Hub", "Failed to encode relay message", map[string]interface{}{"error": err.Error()})
			return
		}
		if err := h.rdb.Publish(context.Background(), RelayChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to relay feed message", map[string]interface{}{"error": err.Error()})
		}
	}
}

// deliver never blocks: clients whose buffer is full are dropped after the
// read lock is released.
func (h *Hub) deliver(data []byte) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Hub", "Client send buffer full, dropping client", map[string]interface{}{"client_id": client.ID})
		h.remove(client)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, RelayChannel)
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
			h.handleRelay([]byte(msg.Payload))
		}
	}
}

func (h *Hub) handleRelay(raw []byte) {
	var payload relayMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err.Error()})
		return
	}
	if payload.Origin == h.instanceID {
		return
	}
	h.deliver(payload.Message)
}
