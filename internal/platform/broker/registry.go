package broker

import (
	"context"
	"log/slog"
	"sync"

	"hotelWeb/internal/modules/realtime/domain"
	"hotelWeb/internal/modules/realtime/infrastructure"
)

// StartKafkaConsumers runs one consumer per topic until ctx is done. The returned WaitGroup
// completes once every reader is closed. Without brokers nothing is started.
func StartKafkaConsumers(
	ctx context.Context,
	registry *infrastructure.HandlerRegistry,
	brokers []string,
	groupID string,
	topics []string,
) *sync.WaitGroup {
	var wg sync.WaitGroup
	if len(brokers) == 0 {
		slog.Info("kafka consumers disabled: no brokers configured")
		return &wg
	}
	for _, topic := range topics {
		wg.Add(1)
		go func(tp string) {
			defer wg.Done()
			consumer := NewKafkaConsumer(brokers, groupID, tp)
			slog.Info("kafka consumer started", slog.String("topic", tp), slog.String("groupId", groupID))
			_ = consumer.Consume(ctx, func(msg *domain.Message) error {
				return registry.Dispatch(ctx, msg)
			})
			slog.Info("kafka consumer stopped", slog.String("topic", tp))
		}(topic)
	}
	return &wg
}
