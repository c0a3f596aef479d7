package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"hotelWeb/internal/modules/realtime/application/usecase"
	"hotelWeb/internal/modules/realtime/domain"
	"hotelWeb/internal/modules/realtime/infrastructure"
	reservationport "hotelWeb/internal/modules/reservations/application/port"
	reservations "hotelWeb/internal/modules/reservations/domain"
	"hotelWeb/internal/shared/auth"
	"hotelWeb/internal/shared/httputil"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ConnectionGauge tracks open websocket sessions.
type ConnectionGauge interface {
	Inc()
	Dec()
}

var watchErrors = httputil.NewErrorMapper().
	WithMapping(usecase.ErrMissingToken, http.StatusBadRequest, "missing token").
	WithMapping(auth.ErrMissingToken, http.StatusBadRequest, "missing token").
	WithMapping(usecase.ErrMissingReservation, http.StatusBadRequest, "missing reservation").
	WithMapping(reservationport.ErrInvalidID, http.StatusBadRequest, "invalid reservation").
	WithMapping(auth.ErrInvalidToken, http.StatusUnauthorized, "invalid token").
	WithMapping(reservationport.ErrUnauthorized, http.StatusUnauthorized, "unauthorized").
	WithMapping(reservationport.ErrForbidden, http.StatusForbidden, "forbidden").
	WithMapping(reservationport.ErrNotFound, http.StatusNotFound, "reservation not found").
	WithDefault(http.StatusBadGateway, "unable to load reservation")

// NewReservationWebsocketHandler exposes /ws/reservations/:id. The token comes from the
// Authorization header or the token query parameter.
func NewReservationWebsocketHandler(hub *infrastructure.Hub, watchUC *usecase.WatchReservationUseCase, gauge ConnectionGauge) echo.HandlerFunc {
	return func(c echo.Context) error {
		reservationID := strings.TrimSpace(c.Param("id"))
		token := auth.ExtractToken(c.Request(), "token")
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		peerIP := c.RealIP()

		ctx, cancel := context.WithTimeout(httputil.WithRequestID(c.Request().Context(), requestID), 10*time.Second)
		defer cancel()

		output, err := watchUC.Execute(ctx, usecase.WatchReservationInput{Token: token, ReservationID: reservationID})
		if err != nil {
			info := watchErrors.Map(err)
			if info.Status >= http.StatusInternalServerError {
				slog.Error("ws watch failed", slog.String("reservationId", reservationID), slog.String("ip", peerIP), slog.String("reqId", requestID), slog.Any("error", err))
			} else {
				slog.Warn("ws watch rejected", slog.String("reservationId", reservationID), slog.Int("status", info.Status), slog.String("ip", peerIP), slog.Any("error", err))
			}
			return echo.NewHTTPError(info.Status, info.Message)
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("ws upgrade failed", slog.String("reservationId", reservationID), slog.Any("error", err))
			return err
		}

		claims := output.Claims
		userID := clientUserID(claims)
		client := infrastructure.NewClient(hub, conn, userID, claims.SessionID, reservationID, token, 8, newReservationCommandHandler(watchUC))
		client.Commands().SetTopicAuthorizer(authorizeReservationTopic(watchUC))
		client.Commands().OnRejected(func(client *infrastructure.Client, cmd infrastructure.Command, reason string) {
			sendCommandError(client, cmd.Action, reason)
		})

		topics := []string{domain.ReservationTopic(reservationID)}
		hub.AttachClient(client, topics)
		if gauge != nil {
			gauge.Inc()
			client.AddCloseHook(func(*infrastructure.Client) { gauge.Dec() })
		}

		go client.WritePump()
		go client.ReadPump()

		client.SendDomainMessage(&domain.Message{
			Topic:  domain.TopicSystemConnected,
			Entity: domain.SystemEntity,
			Action: domain.ActionConnected,
			Metadata: map[string]string{
				"userId":        userID,
				"sessionId":     claims.SessionID,
				"reservationId": reservationID,
			},
			Data: map[string]any{
				"topics": topics,
				"roles":  claims.Roles,
			},
			Timestamp: time.Now().UTC(),
		})
		client.SendDomainMessage(output.Snapshot)

		slog.Info("ws connected", slog.String("reservationId", reservationID), slog.String("userId", userID), slog.String("sessionId", claims.SessionID), slog.String("ip", peerIP), slog.String("reqId", requestID))
		return nil
	}
}

// newReservationCommandHandler serves commands beyond subscribe/unsubscribe/ping.
func newReservationCommandHandler(watchUC *usecase.WatchReservationUseCase) infrastructure.CommandHandler {
	return func(ctx context.Context, client *infrastructure.Client, cmd infrastructure.Command) {
		switch strings.ToLower(strings.TrimSpace(cmd.Action)) {
		case "refresh", "snapshot":
			var payload reservations.GetReservationCommand
			if len(cmd.Payload) > 0 {
				if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
					sendCommandError(client, "refresh", "invalid payload")
					return
				}
			}
			id := strings.TrimSpace(payload.ID)
			if id == "" {
				id = client.ReservationID()
			}
			snapshot, err := watchUC.Snapshot(ctx, client.Token(), id)
			if err != nil {
				slog.Warn("ws refresh failed", slog.String("reservationId", id), slog.Any("error", err))
				sendCommandError(client, "refresh", watchErrors.Map(err).Message)
				return
			}
			client.SendDomainMessage(snapshot)
		default:
			sendCommandError(client, cmd.Action, "unsupported action")
		}
	}
}

// authorizeReservationTopic allows subscribing to another reservation only if the caller can read it.
func authorizeReservationTopic(watchUC *usecase.WatchReservationUseCase) infrastructure.TopicAuthorizer {
	return func(ctx context.Context, client *infrastructure.Client, topic string) error {
		if !domain.IsReservationTopic(topic) {
			return fmt.Errorf("topic %q not allowed", topic)
		}
		id := strings.TrimPrefix(topic, domain.ReservationEntity+".")
		snapshot, err := watchUC.Snapshot(ctx, client.Token(), id)
		if err != nil {
			return errors.New(watchErrors.Map(err).Message)
		}
		client.SendDomainMessage(snapshot)
		return nil
	}
}

func sendCommandError(client *infrastructure.Client, action, reason string) {
	client.SendDomainMessage(&domain.Message{
		Topic:      domain.TopicReservationError,
		Entity:     domain.ReservationEntity,
		Action:     domain.ActionError,
		ResourceID: client.ReservationID(),
		Metadata:   map[string]string{"action": action, "reason": reason},
		Data:       map[string]string{"error": reason},
		Timestamp:  time.Now().UTC(),
	})
}

func clientUserID(claims *auth.Claims) string {
	if claims.UserID > 0 {
		return strconv.FormatInt(claims.UserID, 10)
	}
	return claims.Subject
}
