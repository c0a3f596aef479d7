package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hotelWeb/internal/modules/realtime/domain"
	reservationport "hotelWeb/internal/modules/reservations/application/port"
	reservations "hotelWeb/internal/modules/reservations/domain"
	"hotelWeb/internal/shared/auth"
)

var (
	ErrMissingToken       = errors.New("missing token")
	ErrMissingReservation = errors.New("missing reservation id")
)

// StatusSeeder learns the current status of a reservation from a snapshot.
type StatusSeeder interface {
	Seed(reservationID string, status reservations.ReservationStatus)
}

type WatchReservationInput struct {
	Token         string
	ReservationID string
}

type WatchReservationOutput struct {
	Claims   *auth.Claims
	Snapshot *domain.Message
}

// WatchReservationUseCase authenticates a websocket session and loads the reservation it watches.
// Reading the snapshot with the caller's token is what authorizes the watch: the backend
// answers 403/404 for reservations the caller may not see.
type WatchReservationUseCase struct {
	validator auth.TokenValidator
	client    reservationport.ReservationClient
	seeder    StatusSeeder
}

func NewWatchReservationUseCase(validator auth.TokenValidator, client reservationport.ReservationClient, seeder StatusSeeder) *WatchReservationUseCase {
	return &WatchReservationUseCase{validator: validator, client: client, seeder: seeder}
}

func (uc *WatchReservationUseCase) Execute(ctx context.Context, input WatchReservationInput) (*WatchReservationOutput, error) {
	token := strings.TrimSpace(input.Token)
	if token == "" {
		return nil, ErrMissingToken
	}
	if strings.TrimSpace(input.ReservationID) == "" {
		return nil, ErrMissingReservation
	}

	claims, err := uc.validator.Validate(token)
	if err != nil {
		slog.Warn("watch-reservation token validation failed", slog.String("reservationId", input.ReservationID), slog.Any("error", err))
		return nil, err
	}

	snapshot, err := uc.Snapshot(ctx, token, input.ReservationID)
	if err != nil {
		return nil, err
	}
	slog.Info("watch-reservation authorized", slog.String("reservationId", input.ReservationID), slog.String("subject", claims.Subject), slog.String("sessionId", claims.SessionID))
	return &WatchReservationOutput{Claims: claims, Snapshot: snapshot}, nil
}

// Snapshot fetches the reservation and wraps it as a reservations.snapshot message.
func (uc *WatchReservationUseCase) Snapshot(ctx context.Context, token, reservationID string) (*domain.Message, error) {
	id := strings.TrimSpace(reservationID)
	if id == "" {
		return nil, ErrMissingReservation
	}
	reservation, err := uc.client.Get(ctx, token, id)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, fmt.Errorf("reservation %s: empty snapshot: %w", id, reservationport.ErrNotFound)
	}
	if uc.seeder != nil {
		uc.seeder.Seed(reservation.ID, reservation.Status)
	}

	return &domain.Message{
		Topic:      domain.TopicReservationSnapshot,
		Entity:     domain.ReservationEntity,
		Action:     domain.ActionSnapshot,
		ResourceID: reservation.ID,
		Metadata:   map[string]string{"reservationId": reservation.ID},
		Data:       reservation,
		Timestamp:  time.Now().UTC(),
	}, nil
}
