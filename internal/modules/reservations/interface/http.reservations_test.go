package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelWeb/internal/modules/reservations/application/port"
	"hotelWeb/internal/modules/reservations/domain"
	"hotelWeb/internal/shared/httputil"
)

type stubClient struct {
	reservation *domain.Reservation
	page        *domain.Page
	err         error

	calls     []string
	token     string
	requestID string
	lastID    string
	lastPage  domain.PageRequest
	lastHold  domain.HoldRequest
}

func (s *stubClient) record(ctx context.Context, op, token string) {
	s.calls = append(s.calls, op)
	s.token = token
	s.requestID = httputil.RequestIDFromContext(ctx)
}

func (s *stubClient) Hold(ctx context.Context, token string, request domain.HoldRequest) (*domain.Reservation, error) {
	s.record(ctx, "hold", token)
	s.lastHold = request
	return s.reservation, s.err
}

func (s *stubClient) Get(ctx context.Context, token, id string) (*domain.Reservation, error) {
	s.record(ctx, "get", token)
	s.lastID = id
	return s.reservation, s.err
}

func (s *stubClient) Confirm(ctx context.Context, token, id string) (*domain.Reservation, error) {
	s.record(ctx, "confirm", token)
	s.lastID = id
	return s.reservation, s.err
}

func (s *stubClient) Cancel(ctx context.Context, token, id string) (*domain.Reservation, error) {
	s.record(ctx, "cancel", token)
	s.lastID = id
	return s.reservation, s.err
}

func (s *stubClient) GetMy(ctx context.Context, token string, page domain.PageRequest) (*domain.Page, error) {
	s.record(ctx, "getMy", token)
	s.lastPage = page
	return s.page, s.err
}

func (s *stubClient) GetByUserID(ctx context.Context, token, userID string, page domain.PageRequest) (*domain.Page, error) {
	s.record(ctx, "getByUserId", token)
	s.lastID = userID
	s.lastPage = page
	return s.page, s.err
}

func newTestServer(client port.ReservationClient) *echo.Echo {
	e := echo.New()
	NewReservationHandlers(client).Register(e.Group("/api/reservations"))
	return e
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set(echo.HeaderAuthorization, "Bearer user-token")
	req.Header.Set(echo.HeaderXRequestID, "req-42")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHoldForwardsBodyAndToken(t *testing.T) {
	client := &stubClient{reservation: &domain.Reservation{ID: "10", Status: domain.ReservationStatusHeld}}
	rec := serve(newTestServer(client), http.MethodPost, "/api/reservations/hold",
		`{"roomId":3,"qty":1,"checkIn":"2026-11-01","checkOut":"2026-11-03","holdSeconds":600}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"hold"}, client.calls)
	assert.Equal(t, "user-token", client.token)
	assert.Equal(t, "req-42", client.requestID)
	assert.Equal(t, int64(3), client.lastHold.RoomID)
	assert.Equal(t, "2026-11-01", client.lastHold.CheckIn)
	require.NotNil(t, client.lastHold.HoldSeconds)
	assert.Equal(t, 600, *client.lastHold.HoldSeconds)
	assert.Contains(t, rec.Body.String(), `"status":"HELD"`)
}

func TestHoldRejectsMalformedBody(t *testing.T) {
	client := &stubClient{}
	rec := serve(newTestServer(client), http.MethodPost, "/api/reservations/hold", `{"roomId":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, client.calls)
}

func TestLifecycleRoutes(t *testing.T) {
	cases := []struct {
		method string
		target string
		op     string
		id     string
	}{
		{method: http.MethodGet, target: "/api/reservations/7", op: "get", id: "7"},
		{method: http.MethodPost, target: "/api/reservations/7/confirm", op: "confirm", id: "7"},
		{method: http.MethodPost, target: "/api/reservations/7/cancel", op: "cancel", id: "7"},
		{method: http.MethodGet, target: "/api/reservations/user/55", op: "getByUserId", id: "55"},
	}

	for _, tc := range cases {
		t.Run(tc.op, func(t *testing.T) {
			client := &stubClient{
				reservation: &domain.Reservation{ID: "7"},
				page:        &domain.Page{Items: []domain.Reservation{}},
			}
			rec := serve(newTestServer(client), tc.method, tc.target, "")

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, []string{tc.op}, client.calls)
			assert.Equal(t, tc.id, client.lastID)
		})
	}
}

func TestGetMyParsesPaging(t *testing.T) {
	client := &stubClient{page: &domain.Page{Items: []domain.Reservation{}, Page: 2, Size: 5}}
	rec := serve(newTestServer(client), http.MethodGet, "/api/reservations/my?page=2&size=5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PageRequest{Page: 2, Size: 5}, client.lastPage)

	client = &stubClient{page: &domain.Page{Items: []domain.Reservation{}}}
	serve(newTestServer(client), http.MethodGet, "/api/reservations/my", "")
	assert.Equal(t, domain.PageRequest{Page: 0, Size: 10}, client.lastPage)
}

func TestEmptySnapshotAnswersNoContent(t *testing.T) {
	client := &stubClient{}
	rec := serve(newTestServer(client), http.MethodPost, "/api/reservations/9/confirm", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestBackendStatusRelayed(t *testing.T) {
	client := &stubClient{err: &port.StatusError{
		Op:          "confirm",
		Status:      http.StatusConflict,
		ContentType: "application/json",
		Body:        []byte(`{"message":"hold expired"}`),
	}}
	rec := serve(newTestServer(client), http.MethodPost, "/api/reservations/9/confirm", "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, `{"message":"hold expired"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get(echo.HeaderContentType))
}

func TestClientErrorsMapped(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "missing id", err: port.ErrMissingID, status: http.StatusBadRequest},
		{name: "invalid id", err: fmt.Errorf("%w: %q", port.ErrInvalidID, ".."), status: http.StatusBadRequest},
		{name: "timeout", err: fmt.Errorf("reservation get request failed: %w", context.DeadlineExceeded), status: http.StatusGatewayTimeout},
		{name: "transport", err: errors.New("connection refused"), status: http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &stubClient{err: tc.err}
			rec := serve(newTestServer(client), http.MethodGet, "/api/reservations/1", "")
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
