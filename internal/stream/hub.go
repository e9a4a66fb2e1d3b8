package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Event is the only frame the stream ever carries: the complete current
// contents of one collection of one trip. Clients replace their local copy
// wholesale; there are no deltas to reconcile.
type Event struct {
	Collection string          `json:"collection"`
	TripID     string          `json:"trip_id"`
	Items      json.RawMessage `json:"items"`
}

type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	TripID string
	Send   chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(tripID string) *Client {
	client := &Client{
		TripID: tripID,
		Send:   make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[tripID] == nil {
		h.clients[tripID] = map[*Client]struct{}{}
	}
	h.clients[tripID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if tripClients, ok := h.clients[client.TripID]; ok {
		delete(tripClients, client)
		if len(tripClients) == 0 {
			delete(h.clients, client.TripID)
		}
	}
	close(client.Send)
}

// BroadcastSnapshot pushes the full item list of one collection to every
// subscriber of the trip.
func (h *Hub) BroadcastSnapshot(tripID, collection string, items json.RawMessage) {
	payload, err := json.Marshal(Event{Collection: collection, TripID: tripID, Items: items})
	if err != nil {
		return
	}
	h.Broadcast(tripID, payload)
}

// Broadcast fans a payload out to the trip's subscribers. With redis
// configured the payload goes through pub/sub so every instance, this one
// included, delivers it from the subscription loop. Without redis it is
// delivered to local clients directly.
func (h *Hub) Broadcast(tripID string, payload []byte) {
	if h.redis != nil {
		if err := h.redis.Publish(context.Background(), redisChannel(tripID), payload).Err(); err != nil {
			log.Printf("redis publish error: %v", err)
			h.deliver(tripID, payload)
		}
		return
	}
	h.deliver(tripID, payload)
}

func (h *Hub) deliver(tripID string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[tripID]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "trip:*:events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliver(tripIDFromChannel(msg.Channel), []byte(msg.Payload))
	}
}

func redisChannel(tripID string) string {
	return "trip:" + tripID + ":events"
}

func tripIDFromChannel(ch string) string {
	// trip:{id}:events
	const prefix = "trip:"
	const suffix = ":events"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
