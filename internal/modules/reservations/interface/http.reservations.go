package transport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"hotelWeb/internal/modules/reservations/application/port"
	"hotelWeb/internal/modules/reservations/domain"
	"hotelWeb/internal/shared/auth"
	"hotelWeb/internal/shared/httputil"
)

// ReservationHandlers proxies /api/reservations to the booking backend with the caller's token.
type ReservationHandlers struct {
	client port.ReservationClient
	errors *httputil.ErrorMapper
}

func NewReservationHandlers(client port.ReservationClient) *ReservationHandlers {
	mapper := httputil.NewErrorMapper().
		WithMapping(port.ErrMissingID, http.StatusBadRequest, "missing id").
		WithMapping(port.ErrInvalidID, http.StatusBadRequest, "invalid id").
		WithDefault(http.StatusBadGateway, "reservation backend unavailable")
	return &ReservationHandlers{client: client, errors: mapper}
}

// Register mounts the routes on a group rooted at /api/reservations.
func (h *ReservationHandlers) Register(group *echo.Group) {
	group.POST("/hold", h.Hold)
	group.GET("/my", h.GetMy)
	group.GET("/user/:userId", h.GetByUserID)
	group.GET("/:id", h.Get)
	group.POST("/:id/confirm", h.Confirm)
	group.POST("/:id/cancel", h.Cancel)
}

func (h *ReservationHandlers) Hold(c echo.Context) error {
	var request domain.HoldRequest
	if err := c.Bind(&request); err != nil {
		slog.Warn("reservation hold: invalid request body", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ctx, token := h.callContext(c)
	reservation, err := h.client.Hold(ctx, token, request)
	return h.respondReservation(c, "hold", reservation, err)
}

func (h *ReservationHandlers) Get(c echo.Context) error {
	ctx, token := h.callContext(c)
	reservation, err := h.client.Get(ctx, token, c.Param("id"))
	return h.respondReservation(c, "get", reservation, err)
}

func (h *ReservationHandlers) Confirm(c echo.Context) error {
	ctx, token := h.callContext(c)
	reservation, err := h.client.Confirm(ctx, token, c.Param("id"))
	return h.respondReservation(c, "confirm", reservation, err)
}

func (h *ReservationHandlers) Cancel(c echo.Context) error {
	ctx, token := h.callContext(c)
	reservation, err := h.client.Cancel(ctx, token, c.Param("id"))
	return h.respondReservation(c, "cancel", reservation, err)
}

func (h *ReservationHandlers) GetMy(c echo.Context) error {
	ctx, token := h.callContext(c)
	page, err := h.client.GetMy(ctx, token, domain.ParsePageRequest(c.QueryParams()))
	if err != nil {
		return h.fail(c, "getMy", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ReservationHandlers) GetByUserID(c echo.Context) error {
	ctx, token := h.callContext(c)
	page, err := h.client.GetByUserID(ctx, token, c.Param("userId"), domain.ParsePageRequest(c.QueryParams()))
	if err != nil {
		return h.fail(c, "getByUserId", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ReservationHandlers) callContext(c echo.Context) (context.Context, string) {
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = c.Request().Header.Get(echo.HeaderXRequestID)
	}
	return httputil.WithRequestID(c.Request().Context(), requestID), auth.ExtractBearerToken(c.Request())
}

func (h *ReservationHandlers) respondReservation(c echo.Context, op string, reservation *domain.Reservation, err error) error {
	if err != nil {
		return h.fail(c, op, err)
	}
	if reservation == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, reservation)
}

// fail relays backend statuses untouched; everything else goes through the error mapper.
func (h *ReservationHandlers) fail(c echo.Context, op string, err error) error {
	var statusErr *port.StatusError
	if errors.As(err, &statusErr) {
		slog.Info("reservation backend rejected call", slog.String("op", op), slog.Int("status", statusErr.Status))
		if len(statusErr.Body) == 0 {
			return c.NoContent(statusErr.Status)
		}
		contentType := strings.TrimSpace(statusErr.ContentType)
		if contentType == "" {
			contentType = echo.MIMEApplicationJSON
		}
		return c.Blob(statusErr.Status, contentType, statusErr.Body)
	}

	info := h.errors.Map(err)
	if info.Status >= http.StatusInternalServerError {
		slog.Error("reservation call failed", slog.String("op", op), slog.Int("status", info.Status), slog.Any("error", err))
	} else {
		slog.Warn("reservation call rejected", slog.String("op", op), slog.Int("status", info.Status), slog.Any("error", err))
	}
	return echo.NewHTTPError(info.Status, info.Message)
}
