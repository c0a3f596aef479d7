package domain

import (
	"time"

	"hotelWeb/internal/shared/normalization"
)

// Reservation is a read-only snapshot of a booking as returned by the backend.
type Reservation struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId,omitempty"`
	RoomID    string            `json:"roomId,omitempty"`
	HotelID   string            `json:"hotelId,omitempty"`
	Status    ReservationStatus `json:"status"`
	NumRooms  int               `json:"numRooms,omitempty"`
	Adults    int               `json:"adults,omitempty"`
	Children  int               `json:"children,omitempty"`
	StartDate time.Time         `json:"startDate,omitzero"`
	EndDate   time.Time         `json:"endDate,omitzero"`
	ExpiresAt time.Time         `json:"expiresAt,omitzero"`
}

// NormalizeReservation constructs a Reservation from a loosely typed map. Hold responses carry
// the identifier as reservationId, detail and summary payloads as id.
func NormalizeReservation(raw map[string]any) (Reservation, bool) {
	id := normalization.AsString(normalization.FirstPresent(raw, "id", "reservationId"))
	if id == "" {
		return Reservation{}, false
	}

	reservation := Reservation{
		ID:        id,
		UserID:    normalization.AsString(raw["userId"]),
		RoomID:    normalization.AsString(raw["roomId"]),
		HotelID:   normalization.AsString(raw["hotelId"]),
		NumRooms:  normalization.AsInt(normalization.FirstPresent(raw, "numRooms", "qty")),
		Adults:    normalization.AsInt(normalization.FirstPresent(raw, "adults", "numAdult")),
		Children:  normalization.AsInt(normalization.FirstPresent(raw, "children", "numKid")),
		StartDate: normalization.AsTime(normalization.FirstPresent(raw, "startDate", "checkIn")),
		EndDate:   normalization.AsTime(normalization.FirstPresent(raw, "endDate", "checkOut")),
		ExpiresAt: normalization.AsTime(raw["expiresAt"]),
	}

	status := NormalizeReservationStatus(raw["status"])
	if status == ReservationStatusUnknown {
		status = NormalizeReservationStatus(raw["state"])
	}
	reservation.Status = status

	return reservation, true
}

// BuildReservationDetail extracts a single reservation projection from the payload.
func BuildReservationDetail(payload any) (*Reservation, bool) {
	container := normalization.MapFromPayload(payload)
	if len(container) == 0 {
		return nil, false
	}

	if nested, ok := container["reservation"].(map[string]any); ok {
		container = nested
	}

	reservation, ok := NormalizeReservation(container)
	if !ok {
		return nil, false
	}
	return &reservation, true
}
