package domain

import "strings"

const (
	SystemEntity      = "system"
	ReservationEntity = "reservations"

	TopicSystemConnected = SystemEntity + ".connected"
	TopicSystemPong      = SystemEntity + ".pong"

	ActionConnected = "connected"
	ActionPong      = "pong"
	ActionError     = "error"
	ActionSnapshot  = "snapshot"

	TopicReservationSnapshot = ReservationEntity + "." + ActionSnapshot
	TopicReservationError    = ReservationEntity + "." + ActionError
)

// ReservationTopic is the topic carrying status changes of one reservation.
func ReservationTopic(reservationID string) string {
	id := strings.TrimSpace(reservationID)
	if id == "" {
		return ""
	}
	return ReservationEntity + "." + id
}

// IsReservationTopic reports whether topic is a per-reservation status topic.
func IsReservationTopic(topic string) bool {
	id, ok := strings.CutPrefix(topic, ReservationEntity+".")
	return ok && id != "" && id != ActionSnapshot && id != ActionError
}
