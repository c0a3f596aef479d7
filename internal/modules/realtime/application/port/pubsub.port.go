package port

import (
	"context"

	"hotelWeb/internal/modules/realtime/domain"
)

// Broadcaster delivers messages to the websocket clients subscribed to msg.Topic.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *domain.Message)
}

// TopicHandler handles the events of one broker topic.
type TopicHandler interface {
	Topic() string
	Handle(ctx context.Context, msg *domain.Message) error
}
