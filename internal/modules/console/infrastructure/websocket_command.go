package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/nicovaras/clare/internal/modules/console/domain"
)

// Command is a message sent by a feed client.
type Command struct {
	Action  string          `json:"action"`
	Topic   string          `json:"topic,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (c Command) actionKey() string {
	return normalizeAction(c.Action)
}

type CommandHandler func(ctx context.Context, client *Client, cmd Command)

// CommandProcessor routes client commands to handlers by action.
type CommandProcessor struct {
	hub      *Hub
	handlers map[string]CommandHandler
}

func NewCommandProcessor(hub *Hub) *CommandProcessor {
	processor := &CommandProcessor{
		hub:      hub,
		handlers: make(map[string]CommandHandler),
	}
	processor.Register("subscribe", processor.handleSubscribe)
	processor.Register("unsubscribe", processor.handleUnsubscribe)
	processor.Register("ping", processor.handlePing)
	return processor
}

func (p *CommandProcessor) Register(action string, handler CommandHandler) {
	if handler == nil {
		return
	}
	key := normalizeAction(action)
	if key == "" {
		return
	}
	p.handlers[key] = handler
}

func (p *CommandProcessor) Process(client *Client, cmd Command) {
	if client == nil {
		return
	}

	action := cmd.actionKey()
	if action == "" {
		return
	}

	if handler, ok := p.handlers[action]; ok {
		handler(context.Background(), client, cmd)
		return
	}

	slog.Debug("ws command unsupported", slog.String("clientId", client.id), slog.String("action", action))
	client.SendDomainMessage(systemMessage(domain.TopicSystemError, domain.ActionError, map[string]string{
		"reason": "unsupported action",
		"action": action,
	}))
}

func (p *CommandProcessor) handleSubscribe(_ context.Context, client *Client, cmd Command) {
	topic := strings.TrimSpace(cmd.Topic)
	if topic == "" {
		slog.Debug("ws subscribe ignored empty topic", slog.String("clientId", client.id))
		return
	}
	p.hub.subscribe(client, topic)
	slog.Debug("ws subscribe", slog.String("clientId", client.id), slog.String("topic", topic))
}

func (p *CommandProcessor) handleUnsubscribe(_ context.Context, client *Client, cmd Command) {
	topic := strings.TrimSpace(cmd.Topic)
	if topic == "" {
		return
	}
	p.hub.unsubscribe(client, topic)
}

func (p *CommandProcessor) handlePing(_ context.Context, client *Client, _ Command) {
	client.SendDomainMessage(systemMessage(domain.TopicSystemPong, domain.ActionPong, nil))
}

func systemMessage(topic, action string, metadata map[string]string) *domain.Message {
	return &domain.Message{
		Topic:     topic,
		Entity:    domain.SystemEntity,
		Action:    action,
		Metadata:  metadata,
		Timestamp: time.Now().UTC(),
	}
}

// ConnectedMessage is the greeting sent right after a client attaches.
func ConnectedMessage(clientID string, topics []string) *domain.Message {
	return &domain.Message{
		Topic:     domain.TopicSystemConnected,
		Entity:    domain.SystemEntity,
		Action:    domain.ActionConnected,
		Metadata:  map[string]string{"clientId": clientID},
		Data:      map[string]any{"topics": topics},
		Timestamp: time.Now().UTC(),
	}
}

func normalizeAction(action string) string {
	return strings.ToLower(strings.TrimSpace(action))
}
