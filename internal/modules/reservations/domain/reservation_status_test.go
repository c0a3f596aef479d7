package domain

import (
	"errors"
	"testing"
)

func TestNormalizeReservationStatus(t *testing.T) {
	cases := []struct {
		name     string
		input    any
		expected ReservationStatus
	}{
		{name: "held", input: " held ", expected: ReservationStatusHeld},
		{name: "backend pending", input: "PENDING", expected: ReservationStatusHeld},
		{name: "confirmed uppercase", input: "CONFIRMED", expected: ReservationStatusConfirmed},
		{name: "backend completed", input: "completed", expected: ReservationStatusConfirmed},
		{name: "american spelling", input: "canceled", expected: ReservationStatusCancelled},
		{name: "unknown passthrough", input: "expired", expected: ReservationStatus("EXPIRED")},
		{name: "non string", input: nil, expected: ReservationStatusUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := NormalizeReservationStatus(tc.input)
			if result != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestNextStatus(t *testing.T) {
	cases := []struct {
		name     string
		current  ReservationStatus
		action   Action
		expected ReservationStatus
		valid    bool
	}{
		{name: "hold new", current: ReservationStatusUnknown, action: ActionHold, expected: ReservationStatusHeld, valid: true},
		{name: "confirm held", current: ReservationStatusHeld, action: ActionConfirm, expected: ReservationStatusConfirmed, valid: true},
		{name: "cancel held", current: ReservationStatusHeld, action: ActionCancel, expected: ReservationStatusCancelled, valid: true},
		{name: "cancel confirmed", current: ReservationStatusConfirmed, action: ActionCancel, expected: ReservationStatusCancelled, valid: true},
		{name: "confirm twice", current: ReservationStatusConfirmed, action: ActionConfirm, expected: ReservationStatusConfirmed},
		{name: "confirm cancelled", current: ReservationStatusCancelled, action: ActionConfirm, expected: ReservationStatusCancelled},
		{name: "cancel cancelled", current: ReservationStatusCancelled, action: ActionCancel, expected: ReservationStatusCancelled},
		{name: "hold existing", current: ReservationStatusHeld, action: ActionHold, expected: ReservationStatusHeld},
		{name: "confirm unknown", current: ReservationStatusUnknown, action: ActionConfirm, expected: ReservationStatusUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, err := NextStatus(tc.current, tc.action)
			if next != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, next)
			}
			if tc.valid && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.valid && !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
		})
	}
}

func TestActionFor(t *testing.T) {
	if action, ok := ActionFor(ReservationStatusConfirmed); !ok || action != ActionConfirm {
		t.Fatalf("expected confirm, got %q %v", action, ok)
	}
	if _, ok := ActionFor(ReservationStatus("EXPIRED")); ok {
		t.Fatal("expected no action for unknown status")
	}
	if !ReservationStatusCancelled.Terminal() || ReservationStatusHeld.Terminal() {
		t.Fatal("only cancelled is terminal")
	}
}
