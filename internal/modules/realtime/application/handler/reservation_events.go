package handler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"hotelWeb/internal/modules/realtime/application/port"
	"hotelWeb/internal/modules/realtime/application/usecase"
	"hotelWeb/internal/modules/realtime/domain"
	reservations "hotelWeb/internal/modules/reservations/domain"
)

const (
	OutcomeBroadcast = "broadcast"
	OutcomeDropped   = "dropped"
	OutcomeInvalid   = "invalid"

	defaultMaxTracked = 10000
)

// EventObserver is told the outcome of every consumed event.
type EventObserver func(outcome string)

// ReservationEventHandler turns backend status events into per-reservation websocket messages.
// It remembers the last status seen per reservation and drops events that the lifecycle
// does not allow from there (duplicates, reordering, changes after cancellation).
type ReservationEventHandler struct {
	topic       string
	broadcastUC *usecase.BroadcastUseCase
	observe     EventObserver
	maxTracked  int

	mu   sync.Mutex
	last map[string]reservations.ReservationStatus
}

func NewReservationEventHandler(topic string, broadcastUC *usecase.BroadcastUseCase, observe EventObserver) *ReservationEventHandler {
	return &ReservationEventHandler{
		topic:       topic,
		broadcastUC: broadcastUC,
		observe:     observe,
		maxTracked:  defaultMaxTracked,
		last:        make(map[string]reservations.ReservationStatus),
	}
}

func (h *ReservationEventHandler) Topic() string { return h.topic }

func (h *ReservationEventHandler) Handle(ctx context.Context, msg *domain.Message) error {
	event, ok := domain.ParseReservationEvent(msg.Data, msg.ResourceID, msg.Action)
	if !ok {
		slog.Warn("reservation event without id", slog.String("topic", msg.Topic))
		h.record(OutcomeInvalid)
		return nil
	}

	previous, next, action, err := h.advance(event)
	if err != nil {
		slog.Info("reservation event dropped", slog.String("reservationId", event.ReservationID), slog.String("status", string(event.Status)), slog.String("action", string(event.Action)), slog.Any("error", err))
		h.record(OutcomeDropped)
		return nil
	}

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	metadata := map[string]string{"reservationId": event.ReservationID}
	if event.UserID != "" {
		metadata["ownerId"] = event.UserID
	}

	h.broadcastUC.Execute(ctx, &domain.Message{
		Topic:      domain.ReservationTopic(event.ReservationID),
		Entity:     domain.ReservationEntity,
		Action:     string(action),
		ResourceID: event.ReservationID,
		Metadata:   metadata,
		Data: map[string]any{
			"reservationId":  event.ReservationID,
			"userId":         event.UserID,
			"status":         next,
			"previousStatus": previous,
			"occurredAt":     occurredAt,
		},
		Timestamp: occurredAt,
	})
	h.record(OutcomeBroadcast)
	slog.Debug("reservation event broadcast", slog.String("reservationId", event.ReservationID), slog.String("from", string(previous)), slog.String("to", string(next)))
	return nil
}

// Seed records a status learned elsewhere (e.g. a snapshot). A tracked status is only replaced
// when the lifecycle allows moving from it to the seeded one, so stale snapshots never rewind it.
func (h *ReservationEventHandler) Seed(reservationID string, status reservations.ReservationStatus) {
	if reservationID == "" || status == reservations.ReservationStatusUnknown {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	tracked, seen := h.last[reservationID]
	if !seen {
		h.rememberLocked(reservationID, status)
		return
	}
	action, ok := reservations.ActionFor(status)
	if !ok {
		return
	}
	if next, err := reservations.NextStatus(tracked, action); err == nil && next == status {
		h.rememberLocked(reservationID, status)
	}
}

// LastStatus returns the last accepted status of a reservation.
func (h *ReservationEventHandler) LastStatus(reservationID string) (reservations.ReservationStatus, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	status, ok := h.last[reservationID]
	return status, ok
}

// advance validates the event against the last known status. The first event seen for a
// reservation is trusted when it names a status, since earlier events may predate this process.
func (h *ReservationEventHandler) advance(event domain.ReservationEvent) (reservations.ReservationStatus, reservations.ReservationStatus, reservations.Action, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	previous := h.last[event.ReservationID]
	action := event.Action
	if event.Status != reservations.ReservationStatusUnknown {
		derived, ok := reservations.ActionFor(event.Status)
		if !ok {
			return previous, previous, action, fmt.Errorf("%w: unsupported status %q", reservations.ErrInvalidTransition, event.Status)
		}
		action = derived
		if previous == reservations.ReservationStatusUnknown {
			h.rememberLocked(event.ReservationID, event.Status)
			return previous, event.Status, action, nil
		}
	}

	next, err := reservations.NextStatus(previous, action)
	if err != nil {
		return previous, previous, action, err
	}
	h.rememberLocked(event.ReservationID, next)
	return previous, next, action, nil
}

// rememberLocked stores status, forgetting settled reservations first when the map is full.
func (h *ReservationEventHandler) rememberLocked(reservationID string, status reservations.ReservationStatus) {
	if _, exists := h.last[reservationID]; !exists && len(h.last) >= h.maxTracked {
		for id, tracked := range h.last {
			if tracked.Terminal() {
				delete(h.last, id)
			}
		}
		if len(h.last) >= h.maxTracked {
			clear(h.last)
		}
	}
	h.last[reservationID] = status
}

func (h *ReservationEventHandler) record(outcome string) {
	if h.observe != nil {
		h.observe(outcome)
	}
}

// On returns a handler for another source topic that shares this handler's status tracking.
func (h *ReservationEventHandler) On(topic string) port.TopicHandler {
	if topic == h.topic {
		return h
	}
	return topicAlias{ReservationEventHandler: h, topic: topic}
}

type topicAlias struct {
	*ReservationEventHandler
	topic string
}

func (a topicAlias) Topic() string { return a.topic }

var _ port.TopicHandler = (*ReservationEventHandler)(nil)
