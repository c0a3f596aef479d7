package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"hotelWeb/internal/modules/realtime/domain"
	"hotelWeb/internal/shared/normalization"
)

const retryBackoff = time.Second

type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaConsumer(brokers []string, groupID string, topic string) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}),
	}
}

// Consume reads until ctx is done. Handler errors are logged and the message is still committed.
func (c *KafkaConsumer) Consume(ctx context.Context, handler func(*domain.Message) error) error {
	defer c.reader.Close()
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			slog.Warn("kafka read error", slog.Any("error", err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(retryBackoff):
			}
			continue
		}
		msg := decodeMessage(m)
		slog.Debug("kafka message consumed",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
			slog.String("action", msg.Action),
			slog.String("resourceId", msg.ResourceID),
		)
		if err := handler(msg); err != nil {
			slog.Warn("kafka handler error", slog.String("topic", m.Topic), slog.Any("error", err))
		}
	}
}

// decodeMessage keeps the source topic on the message so the registry can route it. JSON
// bodies are decoded with numbers preserved; anything else is passed on as a string.
func decodeMessage(m kafka.Message) *domain.Message {
	msg := &domain.Message{Topic: m.Topic, Timestamp: m.Time.UTC()}
	if m.Time.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	decoder := json.NewDecoder(bytes.NewReader(m.Value))
	decoder.UseNumber()
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		msg.Action = inferActionFromTopic(m.Topic)
		msg.Data = string(m.Value)
		return msg
	}

	msg.Data = payload
	if envelope, ok := payload.(map[string]any); ok {
		msg.Entity = normalization.AsString(envelope["entity"])
		msg.Action = strings.ToLower(normalization.AsString(envelope["action"]))
	}
	if raw := normalization.MapFromPayload(payload); raw != nil && msg.Action == "" {
		msg.Action = strings.ToLower(normalization.AsString(raw["action"]))
	}
	if msg.Action == "" {
		msg.Action = inferActionFromTopic(m.Topic)
	}
	msg.ResourceID = strings.TrimSpace(string(m.Key))
	if event, ok := domain.ParseReservationEvent(payload, msg.ResourceID, msg.Action); ok {
		msg.ResourceID = event.ReservationID
	}
	return msg
}

// inferActionFromTopic reads the action from topics shaped like "<entity>.<action>".
func inferActionFromTopic(topic string) string {
	parts := strings.Split(topic, ".")
	if len(parts) >= 2 {
		if action := strings.TrimSpace(parts[len(parts)-1]); action != "" {
			return strings.ToLower(action)
		}
	}
	return ""
}
