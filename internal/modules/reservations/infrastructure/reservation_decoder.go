package infrastructure

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"hotelWeb/internal/modules/reservations/domain"
	"hotelWeb/internal/shared/normalization"
)

var errUnexpectedPayload = errors.New("unexpected payload shape")

func decodePayload(raw []byte) (any, bool, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, false, nil
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, false, err
	}
	slog.Debug("reservation payload decoded", slog.String("type", fmt.Sprintf("%T", payload)))
	return payload, true, nil
}

// decodeReservation returns nil without error for an empty body. An acknowledgement that reports
// a status but no id (e.g. from confirm) takes the id that was requested; any other body without
// an id is rejected.
func decodeReservation(op string, raw []byte, requestedID string) (*domain.Reservation, error) {
	payload, ok, err := decodePayload(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s response: %w", op, err)
	}
	if !ok {
		return nil, nil
	}

	if container := normalization.MapFromPayload(payload); container != nil && requestedID != "" {
		if normalization.FirstPresent(container, "id", "reservationId", "reservation") == nil &&
			normalization.FirstPresent(container, "status", "state") != nil {
			container["id"] = requestedID
		}
	}

	reservation, ok := domain.BuildReservationDetail(payload)
	if !ok {
		return nil, fmt.Errorf("decode %s response: %w", op, errUnexpectedPayload)
	}
	return reservation, nil
}

func decodePage(op string, raw []byte, requested domain.PageRequest) (*domain.Page, error) {
	payload, ok, err := decodePayload(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s response: %w", op, err)
	}
	if !ok {
		requested = requested.Normalize()
		return &domain.Page{Items: []domain.Reservation{}, Page: requested.Page, Size: requested.Size}, nil
	}
	page, ok := domain.BuildReservationPage(payload, requested)
	if !ok {
		return nil, fmt.Errorf("decode %s response: %w", op, errUnexpectedPayload)
	}
	return page, nil
}
