package domain

// HoldRequest is the body of POST /reservations/hold. It is sent as-is; the backend validates it.
type HoldRequest struct {
	UserID      int64  `json:"userId,omitempty"`
	RoomID      int64  `json:"roomId"`
	Qty         int    `json:"qty"`
	CheckIn     string `json:"checkIn"`
	CheckOut    string `json:"checkOut"`
	Adults      *int   `json:"adults,omitempty"`
	Children    *int   `json:"children,omitempty"`
	HoldSeconds *int   `json:"holdSeconds,omitempty"`
}

// GetReservationCommand represents the websocket payload for re-reading a reservation.
type GetReservationCommand struct {
	ID string `json:"id"`
}
