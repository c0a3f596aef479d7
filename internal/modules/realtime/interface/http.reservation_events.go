package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"hotelWeb/internal/modules/realtime/application/port"
	"hotelWeb/internal/modules/realtime/domain"
	"hotelWeb/internal/shared/auth"
)

// PublishResponse acknowledges an injected event.
type PublishResponse struct {
	Accepted bool   `json:"accepted"`
	Topic    string `json:"topic"`
}

// NewReservationEventHTTPHandler lets administrators push a reservation event without the broker,
// e.g. from ops tooling. The body has the same shape as broker events.
func NewReservationEventHTTPHandler(validator auth.TokenValidator, handler port.TopicHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := validator.Validate(auth.ExtractBearerToken(c.Request()))
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, auth.ErrMissingToken) {
				status = http.StatusBadRequest
			}
			return echo.NewHTTPError(status, err.Error())
		}
		if !claims.HasRole(auth.RoleAdmin) {
			slog.Warn("reservation event publish forbidden", slog.String("subject", claims.Subject))
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		}

		decoder := json.NewDecoder(c.Request().Body)
		decoder.UseNumber()
		var payload map[string]any
		if err := decoder.Decode(&payload); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}

		event, ok := domain.ParseReservationEvent(payload, "", "")
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "reservationId is required")
		}

		msg := &domain.Message{
			Topic:      handler.Topic(),
			Entity:     domain.ReservationEntity,
			Action:     string(event.Action),
			ResourceID: event.ReservationID,
			Data:       payload,
			Timestamp:  time.Now().UTC(),
		}
		if err := handler.Handle(c.Request().Context(), msg); err != nil {
			slog.Error("reservation event publish failed", slog.String("reservationId", event.ReservationID), slog.Any("error", err))
			return echo.NewHTTPError(http.StatusInternalServerError, "unable to publish event")
		}

		slog.Info("reservation event published", slog.String("reservationId", event.ReservationID), slog.String("subject", claims.Subject))
		return c.JSON(http.StatusAccepted, PublishResponse{Accepted: true, Topic: domain.ReservationTopic(event.ReservationID)})
	}
}
