package domain

import (
	"maps"
	"strings"
	"time"

	reservations "hotelWeb/internal/modules/reservations/domain"
	"hotelWeb/internal/shared/normalization"
)

// ReservationEvent is a status change published by the booking backend.
type ReservationEvent struct {
	ReservationID string                         `json:"reservationId"`
	UserID        string                         `json:"userId,omitempty"`
	Status        reservations.ReservationStatus `json:"status,omitempty"`
	Action        reservations.Action            `json:"action,omitempty"`
	OccurredAt    time.Time                      `json:"occurredAt,omitzero"`
}

// eventFieldAliases groups the keys that name the same event field.
var eventFieldAliases = [][]string{
	{"reservationId", "id", "resourceId"},
	{"status", "state"},
	{"occurredAt", "timestamp"},
}

// ParseReservationEvent reads an event from a decoded payload. Fields of a nested "reservation"
// object take precedence over the envelope's; missing fields fall back to resourceID and action.
// It returns false when no reservation id can be found.
func ParseReservationEvent(payload any, resourceID, action string) (ReservationEvent, bool) {
	envelope := normalization.MapFromPayload(payload)
	raw := maps.Clone(envelope)
	if raw == nil {
		raw = map[string]any{}
	}
	if nested, ok := envelope["reservation"].(map[string]any); ok {
		for _, aliases := range eventFieldAliases {
			if normalization.FirstPresent(nested, aliases...) != nil {
				for _, key := range aliases {
					delete(raw, key)
				}
			}
		}
		maps.Copy(raw, nested)
	}

	event := ReservationEvent{
		ReservationID: normalization.AsString(normalization.FirstPresent(raw, "reservationId", "id", "resourceId")),
		UserID:        normalization.AsString(raw["userId"]),
		Status:        reservations.NormalizeReservationStatus(normalization.FirstPresent(raw, "status", "state")),
		Action:        reservations.Action(strings.ToLower(normalization.AsString(raw["action"]))),
		OccurredAt:    normalization.AsTime(normalization.FirstPresent(raw, "occurredAt", "timestamp")),
	}
	if event.ReservationID == "" {
		event.ReservationID = strings.TrimSpace(resourceID)
	}
	if event.Action == "" {
		event.Action = reservations.Action(strings.ToLower(strings.TrimSpace(action)))
	}
	if event.ReservationID == "" {
		return ReservationEvent{}, false
	}
	return event, true
}
