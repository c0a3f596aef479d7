package domain

import "strings"

// ReservationStatus represents the lifecycle of a reservation as exposed by the REST API.
type ReservationStatus string

const (
	ReservationStatusUnknown   ReservationStatus = ""
	ReservationStatusHeld      ReservationStatus = "HELD"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// The booking backend persists holds as PENDING and confirmed stays as COMPLETED.
var allowedReservationStatuses = map[string]ReservationStatus{
	string(ReservationStatusHeld):      ReservationStatusHeld,
	"PENDING":                          ReservationStatusHeld,
	string(ReservationStatusConfirmed): ReservationStatusConfirmed,
	"COMPLETED":                        ReservationStatusConfirmed,
	string(ReservationStatusCancelled): ReservationStatusCancelled,
	"CANCELED":                         ReservationStatusCancelled,
}

// NormalizeReservationStatus returns the canonical ReservationStatus for the given input.
// Unknown statuses are uppercased and returned as-is to avoid data loss.
func NormalizeReservationStatus(value any) ReservationStatus {
	s, ok := value.(string)
	if !ok {
		return ReservationStatusUnknown
	}
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if trimmed == "" {
		return ReservationStatusUnknown
	}
	if status, ok := allowedReservationStatuses[trimmed]; ok {
		return status
	}
	return ReservationStatus(trimmed)
}

// Terminal reports whether no further transition can leave the status.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationStatusCancelled
}
