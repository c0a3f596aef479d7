package port

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"hotelWeb/internal/modules/reservations/domain"
)

var (
	// ErrMissingID is returned before any request when a reservation or user id is blank.
	ErrMissingID = errors.New("reservation id is required")
	// ErrInvalidID is returned before any request when an id would address another endpoint.
	ErrInvalidID = errors.New("reservation id is invalid")

	ErrUnauthorized = errors.New("reservation request unauthorized")
	ErrForbidden    = errors.New("reservation request forbidden")
	ErrNotFound     = errors.New("reservation not found")
	ErrConflict     = errors.New("reservation state conflict")
)

// ReservationClient issues one backend request per lifecycle operation and returns the decoded
// response. It performs no retries and no transition checks; the backend decides.
type ReservationClient interface {
	Hold(ctx context.Context, token string, request domain.HoldRequest) (*domain.Reservation, error)
	Get(ctx context.Context, token, reservationID string) (*domain.Reservation, error)
	Confirm(ctx context.Context, token, reservationID string) (*domain.Reservation, error)
	Cancel(ctx context.Context, token, reservationID string) (*domain.Reservation, error)
	GetMy(ctx context.Context, token string, page domain.PageRequest) (*domain.Page, error)
	GetByUserID(ctx context.Context, token, userID string, page domain.PageRequest) (*domain.Page, error)
}

// StatusError reports a non-2xx backend response. Body holds the raw response body so callers
// can relay it untouched.
type StatusError struct {
	Op          string
	Method      string
	Path        string
	Status      int
	ContentType string
	Body        []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("reservation %s: %s %s returned %d", e.Op, e.Method, e.Path, e.Status)
}

// Is lets callers match well-known statuses with errors.Is.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict
	}
	return false
}
