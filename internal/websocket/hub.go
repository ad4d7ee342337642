package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"ai-journaling-be/internal/model"
	"ai-journaling-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel is the redis channel hub instances use to forward
// messages for users connected elsewhere.
const ClusterChannel = "cluster_events"

const broadcastTarget = "*"

type clusterMessage struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

// Hub tracks the live websocket clients of this instance, keyed by user.
// A user may be connected from several devices.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	rdb    *redis.Client
	origin string
	logger logger.ILogger
}

// NewHub returns a hub. rdb may be nil for a single-instance deployment.
func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client, 64),
		rdb:        rdb,
		origin:     uuid.NewString(),
		logger:     log,
	}
}

// Run owns client registration until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]struct{})
			}
			h.clients[client.UserID][client] = struct{}{}
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.Send)
	if len(set) == 0 {
		delete(h.clients, client.UserID)
		h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for uid, set := range h.clients {
		for c := range set {
			close(c.Send)
		}
		delete(h.clients, uid)
	}
}

// ConnectedUsers reports how many distinct users have a live connection.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// deliver pushes data to local clients. A nil target means everyone.
// Clients with a full buffer are dropped; Run closes them.
func (h *Hub) deliver(target *uuid.UUID, data []byte) {
	h.mu.RLock()
	var slow []*Client
	for uid, set := range h.clients {
		if target != nil && uid != *target {
			continue
		}
		for c := range set {
			select {
			case c.Send <- data:
			default:
				slow = append(slow, c)
			}
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Hub", "Client Send buffer full, dropping connection", map[string]interface{}{"user_id": c.UserID})
		h.unregister <- c
	}
}

func encode(notification model.Notification) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "notification",
		"data": notification,
	})
	return data
}

// Send delivers a notification to every device of one user, on this
// instance and, through redis, on the others.
func (h *Hub) Send(userID uuid.UUID, notification model.Notification) {
	data := encode(notification)
	h.deliver(&userID, data)
	h.publish(userID.String(), data)
}

// Broadcast delivers a notification to every connected client.
func (h *Hub) Broadcast(notification model.Notification) {
	data := encode(notification)
	h.deliver(nil, data)
	h.publish(broadcastTarget, data)
}

func (h *Hub) publish(target string, data []byte) {
	if h.rdb == nil {
		return
	}
	payload, _ := json.Marshal(clusterMessage{Origin: h.origin, TargetUserID: target, Message: data})
	if err := h.rdb.Publish(context.Background(), ClusterChannel, payload).Err(); err != nil {
		h.logger.Warn("Hub", "Failed to forward message to cluster", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	h.consumeCluster(ctx, pubsub.Channel())
}

// consumeCluster handles forwarded messages until ctx is cancelled or the
// subscription channel closes.
func (h *Hub) consumeCluster(ctx context.Context, messages <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			h.handleClusterMessage([]byte(msg.Payload))
		}
	}
}

func (h *Hub) handleClusterMessage(raw []byte) {
	var payload clusterMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
		return
	}
	// already delivered locally by the sender
	if payload.Origin == h.origin {
		return
	}

	if payload.TargetUserID == broadcastTarget {
		h.deliver(nil, payload.Message)
		return
	}
	uid, err := uuid.Parse(payload.TargetUserID)
	if err != nil {
		return
	}
	h.deliver(&uid, payload.Message)
}
