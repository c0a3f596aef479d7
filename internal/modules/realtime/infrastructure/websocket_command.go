package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"hotelWeb/internal/modules/realtime/domain"
)

type Command struct {
	Action  string          `json:"action"`
	Topic   string          `json:"topic,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (c Command) actionKey() string {
	return normalizeAction(c.Action)
}

type CommandHandler func(ctx context.Context, client *Client, cmd Command)

// TopicAuthorizer decides whether client may subscribe to topic.
type TopicAuthorizer func(ctx context.Context, client *Client, topic string) error

type CommandProcessor struct {
	hub        *Hub
	handlers   map[string]CommandHandler
	fallback   CommandHandler
	authorize  TopicAuthorizer
	timeout    time.Duration
	onRejected func(client *Client, cmd Command, reason string)
}

func NewCommandProcessor(hub *Hub, fallback CommandHandler) *CommandProcessor {
	processor := &CommandProcessor{
		hub:      hub,
		handlers: make(map[string]CommandHandler),
		fallback: fallback,
		timeout:  10 * time.Second,
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

// SetTopicAuthorizer guards subscribe commands. Without one every topic is allowed.
func (p *CommandProcessor) SetTopicAuthorizer(fn TopicAuthorizer) {
	p.authorize = fn
}

// OnRejected is called when a command is refused, so the caller can report it to the client.
func (p *CommandProcessor) OnRejected(fn func(client *Client, cmd Command, reason string)) {
	p.onRejected = fn
}

func (p *CommandProcessor) Process(client *Client, cmd Command) {
	if client == nil {
		return
	}

	action := cmd.actionKey()
	if action == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if handler, ok := p.handlers[action]; ok {
		handler(ctx, client, cmd)
		return
	}

	if p.fallback == nil {
		slog.Debug("ws command ignored", slog.String("userId", client.userID), slog.String("sessionId", client.sessionID), slog.String("action", action))
		p.reject(client, cmd, "unsupported action")
		return
	}
	p.fallback(ctx, client, cmd)
}

func (p *CommandProcessor) handleSubscribe(ctx context.Context, client *Client, cmd Command) {
	topic := strings.TrimSpace(cmd.Topic)
	if topic == "" {
		slog.Debug("ws subscribe ignored empty topic", slog.String("userId", client.userID), slog.String("sessionId", client.sessionID))
		return
	}
	if p.authorize != nil {
		if err := p.authorize(ctx, client, topic); err != nil {
			slog.Info("ws subscribe refused", slog.String("userId", client.userID), slog.String("topic", topic), slog.Any("error", err))
			p.reject(client, cmd, err.Error())
			return
		}
	}
	if !p.hub.subscribe(client, topic) {
		slog.Debug("ws subscribe dropped for closed client", slog.String("userId", client.userID), slog.String("sessionId", client.sessionID), slog.String("topic", topic))
		return
	}
	slog.Debug("ws subscribe", slog.String("userId", client.userID), slog.String("sessionId", client.sessionID), slog.String("topic", topic))
}

func (p *CommandProcessor) handleUnsubscribe(_ context.Context, client *Client, cmd Command) {
	topic := strings.TrimSpace(cmd.Topic)
	if topic == "" {
		return
	}
	p.hub.unsubscribe(client, topic)
}

func (p *CommandProcessor) handlePing(_ context.Context, client *Client, _ Command) {
	client.SendDomainMessage(&domain.Message{
		Topic:     domain.TopicSystemPong,
		Entity:    domain.SystemEntity,
		Action:    domain.ActionPong,
		Timestamp: time.Now().UTC(),
	})
}

func (p *CommandProcessor) reject(client *Client, cmd Command, reason string) {
	if p.onRejected != nil {
		p.onRejected(client, cmd, reason)
	}
}

func normalizeAction(action string) string {
	return strings.ToLower(strings.TrimSpace(action))
}
