package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hotelWeb/internal/modules/reservations/application/port"
	"hotelWeb/internal/modules/reservations/domain"
	"hotelWeb/internal/shared/httputil"
)

const maxResponseBody = 4 << 20

// CallRecorder observes every backend call. status is 0 when no response was received.
type CallRecorder interface {
	ObserveCall(operation string, status int, elapsed time.Duration)
}

// ReservationHTTPClient implements port.ReservationClient against the booking REST API.
type ReservationHTTPClient struct {
	rest     *RESTClient
	recorder CallRecorder
}

func NewReservationHTTPClient(baseURL string, timeout time.Duration, client *http.Client, recorder CallRecorder) *ReservationHTTPClient {
	return &ReservationHTTPClient{rest: NewRESTClient(baseURL, timeout, client), recorder: recorder}
}

func (c *ReservationHTTPClient) Hold(ctx context.Context, token string, request domain.HoldRequest) (*domain.Reservation, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encode hold request: %w", err)
	}
	raw, err := c.perform(ctx, reservationEndpoints[opHold], "", nil, token, body)
	if err != nil {
		return nil, err
	}
	return decodeReservation(opHold, raw, "")
}

func (c *ReservationHTTPClient) Get(ctx context.Context, token, reservationID string) (*domain.Reservation, error) {
	raw, err := c.perform(ctx, reservationEndpoints[opGet], reservationID, nil, token, nil)
	if err != nil {
		return nil, err
	}
	return decodeReservation(opGet, raw, reservationID)
}

func (c *ReservationHTTPClient) Confirm(ctx context.Context, token, reservationID string) (*domain.Reservation, error) {
	raw, err := c.perform(ctx, reservationEndpoints[opConfirm], reservationID, nil, token, nil)
	if err != nil {
		return nil, err
	}
	return decodeReservation(opConfirm, raw, reservationID)
}

func (c *ReservationHTTPClient) Cancel(ctx context.Context, token, reservationID string) (*domain.Reservation, error) {
	raw, err := c.perform(ctx, reservationEndpoints[opCancel], reservationID, nil, token, nil)
	if err != nil {
		return nil, err
	}
	return decodeReservation(opCancel, raw, reservationID)
}

func (c *ReservationHTTPClient) GetMy(ctx context.Context, token string, page domain.PageRequest) (*domain.Page, error) {
	page = page.Normalize()
	raw, err := c.perform(ctx, reservationEndpoints[opGetMy], "", page.ToURLValues(), token, nil)
	if err != nil {
		return nil, err
	}
	return decodePage(opGetMy, raw, page)
}

func (c *ReservationHTTPClient) GetByUserID(ctx context.Context, token, userID string, page domain.PageRequest) (*domain.Page, error) {
	page = page.Normalize()
	raw, err := c.perform(ctx, reservationEndpoints[opGetByUserID], userID, page.ToURLValues(), token, nil)
	if err != nil {
		return nil, err
	}
	return decodePage(opGetByUserID, raw, page)
}

// perform sends exactly one request and returns the raw body of a 2xx response.
func (c *ReservationHTTPClient) perform(ctx context.Context, endpoint reservationEndpoint, pathValue string, query url.Values, token string, body []byte) ([]byte, error) {
	path, err := endpoint.path(pathValue)
	if err != nil {
		slog.Warn("reservation path build failed", slog.String("op", endpoint.operation), slog.String("value", pathValue), slog.Any("error", err))
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := c.rest.NewRequest(ctx, endpoint.method, path, reader)
	if err != nil {
		slog.Error("reservation request build failed", slog.String("op", endpoint.operation), slog.String("path", path), slog.Any("error", err))
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if trimmed := strings.TrimSpace(token); trimmed != "" {
		req.Header.Set("Authorization", "Bearer "+trimmed)
	}
	req.Header.Set(httputil.HeaderRequestID, httputil.RequestIDFromContext(ctx))
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}

	slog.Debug("reservation request", slog.String("op", endpoint.operation), slog.String("method", endpoint.method), slog.String("url", req.URL.String()))

	started := time.Now()
	res, err := c.rest.Do(req)
	if err != nil {
		c.observe(endpoint.operation, 0, started)
		slog.Error("reservation request error", slog.String("op", endpoint.operation), slog.String("path", path), slog.Any("error", err))
		return nil, fmt.Errorf("reservation %s request failed: %w", endpoint.operation, err)
	}
	defer res.Body.Close()
	c.observe(endpoint.operation, res.StatusCode, started)

	slog.Debug("reservation response", slog.String("op", endpoint.operation), slog.Int("status", res.StatusCode), slog.String("url", req.URL.String()))

	payload, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("reservation %s read body: %w", endpoint.operation, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		level := slog.LevelWarn
		if res.StatusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(ctx, level, "reservation unexpected status", slog.String("op", endpoint.operation), slog.Int("status", res.StatusCode), slog.String("url", req.URL.String()), slog.String("body", truncate(payload, 2048)))
		return nil, &port.StatusError{
			Op:          endpoint.operation,
			Method:      endpoint.method,
			Path:        path,
			Status:      res.StatusCode,
			ContentType: res.Header.Get("Content-Type"),
			Body:        payload,
		}
	}

	return payload, nil
}

func (c *ReservationHTTPClient) observe(operation string, status int, started time.Time) {
	if c.recorder == nil {
		return
	}
	c.recorder.ObserveCall(operation, status, time.Since(started))
}

func truncate(body []byte, limit int) string {
	trimmed := strings.TrimSpace(string(body))
	if len(trimmed) > limit {
		return trimmed[:limit]
	}
	return trimmed
}

var _ port.ReservationClient = (*ReservationHTTPClient)(nil)
