package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/nicovaras/clare/internal/modules/console/application/port"
	"github.com/nicovaras/clare/internal/modules/console/domain"
)

// Hub fans activity messages out to websocket subscribers.
type Hub struct {
	topics  map[string]map[*Client]struct{}
	clients map[string]*Client
	global  map[*Client]struct{}
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		topics:  make(map[string]map[*Client]struct{}),
		clients: make(map[string]*Client),
		global:  make(map[*Client]struct{}),
	}
}

func (h *Hub) registerClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.clients[c.id]; ok && existing != c {
		h.detachLocked(existing)
	}
	h.clients[c.id] = c
	slog.Info("ws client registered", slog.String("clientId", c.id), slog.String("userFilter", c.userID))
}

func (h *Hub) subscribe(c *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Client]struct{})
	}
	h.topics[topic][c] = struct{}{}
	c.subscribed[topic] = struct{}{}
}

func (h *Hub) unsubscribe(c *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.topics[topic]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
	delete(c.subscribed, topic)
	slog.Debug("ws client unsubscribed", slog.String("clientId", c.id), slog.String("topic", topic))
}

func (h *Hub) detachClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(c)
}

func (h *Hub) detachLocked(c *Client) {
	if c == nil {
		return
	}
	for topic := range c.subscribed {
		if subs, ok := h.topics[topic]; ok {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.topics, topic)
			}
		}
	}
	if current, ok := h.clients[c.id]; ok && current == c {
		delete(h.clients, c.id)
	}
	delete(h.global, c)
	c.closed = true
	c.close()
	slog.Info("ws client detached", slog.String("clientId", c.id))
}

// Broadcast delivers msg to every client subscribed to its topic or to all
// topics. Clients filtered to a user only receive that user's events.
func (h *Hub) Broadcast(_ context.Context, msg *domain.Message) {
	if msg == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("broadcast marshal error", slog.Any("error", err))
		return
	}

	targetUser := ""
	if msg.Metadata != nil {
		targetUser = strings.TrimSpace(msg.Metadata["userId"])
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	seen := make(map[*Client]struct{}, len(h.topics[msg.Topic])+len(h.global))
	deliver := func(c *Client) {
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		if c.userID != "" && c.userID != targetUser {
			return
		}
		h.deliverLocked(c, data)
	}
	for c := range h.topics[msg.Topic] {
		deliver(c)
	}
	for c := range h.global {
		deliver(c)
	}
}

// deliverLocked queues data without blocking; a full buffer detaches the
// client. Callers hold at least the read lock.
func (h *Hub) deliverLocked(c *Client, data []byte) {
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		slog.Warn("ws send buffer full", slog.String("clientId", c.id))
		go h.detachClient(c)
	}
}

// AttachClient registers the client on the given topics. With no topics the
// client receives every activity message.
func (h *Hub) AttachClient(c *Client, topics []string) {
	cleaned := make([]string, 0, len(topics))
	for _, topic := range topics {
		if trimmed := strings.TrimSpace(topic); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		h.AttachClientToAll(c)
		return
	}
	h.registerClient(c)
	for _, topic := range cleaned {
		h.subscribe(c, topic)
	}
	slog.Info("ws client attached", slog.String("clientId", c.id), slog.Any("topics", cleaned))
}

// AttachClientToAll registers the client as a global subscriber receiving every broadcasted message.
func (h *Hub) AttachClientToAll(c *Client) {
	c.receiveAll = true
	h.registerClient(c)
	h.mu.Lock()
	h.global[c] = struct{}{}
	h.mu.Unlock()
	slog.Info("ws client attached to all topics", slog.String("clientId", c.id))
}

// ClientCount reports the number of attached clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close detaches every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		h.detachLocked(c)
	}
}

var _ port.Broadcaster = (*Hub)(nil)
