package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when an action cannot be applied to the current status.
var ErrInvalidTransition = errors.New("invalid reservation transition")

// Action is a lifecycle command a client can ask the backend to apply.
type Action string

const (
	ActionHold    Action = "hold"
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
)

// NextStatus applies action to current following the backend's rules:
// NONE -> HELD -> CONFIRMED, and HELD or CONFIRMED -> CANCELLED.
// The backend is authoritative; this only lets status trackers discard impossible updates.
func NextStatus(current ReservationStatus, action Action) (ReservationStatus, error) {
	switch action {
	case ActionHold:
		if current == ReservationStatusUnknown {
			return ReservationStatusHeld, nil
		}
	case ActionConfirm:
		if current == ReservationStatusHeld {
			return ReservationStatusConfirmed, nil
		}
	case ActionCancel:
		if current == ReservationStatusHeld || current == ReservationStatusConfirmed {
			return ReservationStatusCancelled, nil
		}
	}
	return current, fmt.Errorf("%w: %s from %q", ErrInvalidTransition, action, current)
}

// ActionFor returns the action that moves a reservation into target.
func ActionFor(target ReservationStatus) (Action, bool) {
	switch target {
	case ReservationStatusHeld:
		return ActionHold, true
	case ReservationStatusConfirmed:
		return ActionConfirm, true
	case ReservationStatusCancelled:
		return ActionCancel, true
	default:
		return "", false
	}
}
