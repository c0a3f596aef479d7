package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelWeb/internal/modules/reservations/application/port"
	"hotelWeb/internal/modules/reservations/domain"
	"hotelWeb/internal/shared/httputil"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	body     string
}

func newFakeBackend(t *testing.T, status int, body string) (*fakeBackend, *httptest.Server) {
	t.Helper()
	backend := &fakeBackend{status: status, body: body}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, _ := io.ReadAll(r.Body)
		backend.mu.Lock()
		backend.requests = append(backend.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   payload,
		})
		backend.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(backend.status)
		_, _ = io.WriteString(w, backend.body)
	}))
	t.Cleanup(server.Close)
	return backend, server
}

func (b *fakeBackend) only(t *testing.T) recordedRequest {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.Len(t, b.requests, 1, "expected exactly one backend request")
	return b.requests[0]
}

type recorderStub struct {
	mu    sync.Mutex
	calls []string
	codes []int
}

func (r *recorderStub) ObserveCall(operation string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, operation)
	r.codes = append(r.codes, status)
}

func newTestClient(server *httptest.Server, recorder CallRecorder) *ReservationHTTPClient {
	return NewReservationHTTPClient(server.URL+"/api", 2*time.Second, server.Client(), recorder)
}

func TestGetMyDefaultsPagination(t *testing.T) {
	backend, server := newFakeBackend(t, http.StatusOK, `{"content":[{"id":1,"status":"PENDING"}],"totalElements":1,"totalPages":1,"number":0,"size":10}`)
	client := newTestClient(server, nil)

	page, err := client.GetMy(context.Background(), "tok", domain.PageRequest{})
	require.NoError(t, err)

	req := backend.only(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/reservations/my", req.Path)
	assert.Equal(t, "page=0&size=10", req.Query)
	assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
	require.Len(t, page.Items, 1)
	assert.Equal(t, domain.ReservationStatusHeld, page.Items[0].Status)
}

func TestGetByUserIDDefaultsPagination(t *testing.T) {
	backend, server := newFakeBackend(t, http.StatusOK, `[]`)
	client := newTestClient(server, nil)

	page, err := client.GetByUserID(context.Background(), "", "42", domain.PageRequest{})
	require.NoError(t, err)

	req := backend.only(t)
	assert.Equal(t, "/api/reservations/user/42", req.Path)
	assert.Equal(t, "page=0&size=10", req.Query)
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Empty(t, page.Items)
}

func TestGetByUserIDKeepsExplicitPaging(t *testing.T) {
	backend, server := newFakeBackend(t, http.StatusOK, `[]`)
	client := newTestClient(server, nil)

	_, err := client.GetByUserID(context.Background(), "", "7", domain.PageRequest{Page: 3, Size: 25})
	require.NoError(t, err)
	assert.Equal(t, "page=3&size=25", backend.only(t).Query)
}

func TestGetIssuesSingleGetAndDecodesBody(t *testing.T) {
	body := `{"id":15,"status":"CONFIRMED","userId":3,"roomId":8,"hotelId":2,"numRooms":1,"adults":2,"children":0,"startDate":"2025-07-01T00:00:00Z","endDate":"2025-07-04T00:00:00Z"}`
	backend, server := newFakeBackend(t, http.StatusOK, body)
	client := newTestClient(server, nil)

	reservation, err := client.Get(context.Background(), "tok", "15")
	require.NoError(t, err)

	req := backend.only(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/reservations/15", req.Path)
	assert.Equal(t, "application/json", req.Header.Get("Accept"))

	require.NotNil(t, reservation)
	assert.Equal(t, "15", reservation.ID)
	assert.Equal(t, domain.ReservationStatusConfirmed, reservation.Status)
	assert.Equal(t, "3", reservation.UserID)
	assert.Equal(t, "8", reservation.RoomID)
	assert.Equal(t, "2", reservation.HotelID)
	assert.Equal(t, 2, reservation.Adults)
	assert.Equal(t, time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC), reservation.EndDate)
}

func TestHoldPostsPayloadVerbatim(t *testing.T) {
	backend, server := newFakeBackend(t, http.StatusOK, `{"reservationId":99,"expiresAt":"2025-07-01T10:00:30Z","status":"PENDING"}`)
	client := newTestClient(server, nil)

	adults := 2
	request := domain.HoldRequest{UserID: 3, RoomID: 8, Qty: 1, CheckIn: "2025-07-01", CheckOut: "2025-07-04", Adults: &adults}
	reservation, err := client.Hold(context.Background(), "tok", request)
	require.NoError(t, err)

	req := backend.only(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/reservations/hold", req.Path)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	expected, err := json.Marshal(request)
	require.NoError(t, err)
	assert.Equal(t, string(expected), string(req.Body))

	require.NotNil(t, reservation)
	assert.Equal(t, "99", reservation.ID)
	assert.Equal(t, domain.ReservationStatusHeld, reservation.Status)
}

func TestConfirmAndCancelPaths(t *testing.T) {
	cases := []struct {
		name string
		call func(*ReservationHTTPClient) (*domain.Reservation, error)
		path string
	}{
		{name: "confirm", path: "/api/reservations/5/confirm", call: func(c *ReservationHTTPClient) (*domain.Reservation, error) {
			return c.Confirm(context.Background(), "tok", "5")
		}},
		{name: "cancel", path: "/api/reservations/5/cancel", call: func(c *ReservationHTTPClient) (*domain.Reservation, error) {
			return c.Cancel(context.Background(), "tok", "5")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend, server := newFakeBackend(t, http.StatusOK, `{"status":"COMPLETED"}`)
			reservation, err := tc.call(newTestClient(server, nil))
			require.NoError(t, err)

			req := backend.only(t)
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, tc.path, req.Path)
			assert.Empty(t, req.Body)

			require.NotNil(t, reservation)
			assert.Equal(t, "5", reservation.ID, "acknowledgements without id keep the requested id")
		})
	}
}

func TestEmptySuccessBodyResolvesWithoutSnapshot(t *testing.T) {
	_, server := newFakeBackend(t, http.StatusNoContent, "")
	reservation, err := newTestClient(server, nil).Confirm(context.Background(), "tok", "5")
	require.NoError(t, err)
	assert.Nil(t, reservation)
}

func TestServerErrorRejects(t *testing.T) {
	backend, server := newFakeBackend(t, http.StatusInternalServerError, `{"message":"boom"}`)
	recorder := &recorderStub{}
	client := newTestClient(server, recorder)

	reservation, err := client.Get(context.Background(), "tok", "1")
	require.Error(t, err)
	assert.Nil(t, reservation)
	backend.only(t)

	var statusErr *port.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.Status)
	assert.Equal(t, "get", statusErr.Op)
	assert.Equal(t, "/reservations/1", statusErr.Path)
	assert.JSONEq(t, `{"message":"boom"}`, string(statusErr.Body))
	assert.Equal(t, []int{http.StatusInternalServerError}, recorder.codes)
}

func TestConflictMatchesSentinel(t *testing.T) {
	_, server := newFakeBackend(t, http.StatusConflict, `{"message":"already processed"}`)
	_, err := newTestClient(server, nil).Confirm(context.Background(), "tok", "9")
	assert.ErrorIs(t, err, port.ErrConflict)
	assert.NotErrorIs(t, err, port.ErrNotFound)
}

func TestBlankIDSendsNothing(t *testing.T) {
	backend, server := newFakeBackend(t, http.StatusOK, `{}`)
	client := newTestClient(server, nil)

	_, err := client.Get(context.Background(), "tok", "   ")
	assert.ErrorIs(t, err, port.ErrMissingID)
	_, err = client.Cancel(context.Background(), "tok", "")
	assert.ErrorIs(t, err, port.ErrMissingID)
	_, err = client.GetByUserID(context.Background(), "tok", "", domain.PageRequest{})
	assert.ErrorIs(t, err, port.ErrMissingID)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Empty(t, backend.requests)
}

func TestIDsAddressingOtherEndpointsSendNothing(t *testing.T) {
	backend, server := newFakeBackend(t, http.StatusOK, `{"content":[],"totalElements":0}`)
	client := newTestClient(server, nil)

	for _, id := range []string{"my", "hold", "MY", "user", ".", ".."} {
		reservation, err := client.Get(context.Background(), "tok", id)
		assert.ErrorIs(t, err, port.ErrInvalidID, id)
		assert.Nil(t, reservation, id)
	}
	_, err := client.Confirm(context.Background(), "tok", "..")
	assert.ErrorIs(t, err, port.ErrInvalidID)
	_, err = client.GetByUserID(context.Background(), "tok", ".", domain.PageRequest{})
	assert.ErrorIs(t, err, port.ErrInvalidID)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Empty(t, backend.requests)
}

func TestBodyWithoutReservationShapeIsRejected(t *testing.T) {
	cases := map[string]string{
		"page envelope":   `{"content":[{"id":1,"status":"PENDING"}],"totalElements":1}`,
		"acknowledgement": `{"message":"ok"}`,
		"empty object":    `{}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, server := newFakeBackend(t, http.StatusOK, body)
			reservation, err := newTestClient(server, nil).Get(context.Background(), "tok", "7")
			require.Error(t, err)
			assert.Nil(t, reservation)
			assert.Contains(t, err.Error(), "decode get response")
		})
	}
}

func TestTransportFailurePropagates(t *testing.T) {
	_, server := newFakeBackend(t, http.StatusOK, `{}`)
	client := newTestClient(server, nil)
	server.Close()

	reservation, err := client.Get(context.Background(), "tok", "1")
	require.Error(t, err)
	assert.Nil(t, reservation)
	var statusErr *port.StatusError
	assert.False(t, errors.As(err, &statusErr), "transport errors are not status errors")
}

func TestContextDeadlinePropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)
	client := newTestClient(server, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := client.Get(ctx, "tok", "1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestNoTimeoutBeyondTransport(t *testing.T) {
	var hasDeadline bool
	transport := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		_, hasDeadline = r.Context().Deadline()
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`{"id":1,"status":"PENDING"}`)),
			Request:    r,
		}, nil
	})
	client := NewReservationHTTPClient("http://backend.test/api", 0, &http.Client{Transport: transport}, nil)

	reservation, err := client.Get(context.Background(), "tok", "1")
	require.NoError(t, err)
	require.NotNil(t, reservation)
	assert.False(t, hasDeadline, "request context must only carry the caller's deadline")
}

func TestRequestIDForwarded(t *testing.T) {
	backend, server := newFakeBackend(t, http.StatusOK, `{"id":1}`)
	ctx := httputil.WithRequestID(context.Background(), "req-123")

	_, err := newTestClient(server, nil).Get(ctx, "tok", "1")
	require.NoError(t, err)
	assert.Equal(t, "req-123", backend.only(t).Header.Get(httputil.HeaderRequestID))
}

func TestMalformedBodyIsDecodeError(t *testing.T) {
	_, server := newFakeBackend(t, http.StatusOK, `{"id":`)
	reservation, err := newTestClient(server, nil).Get(context.Background(), "tok", "1")
	require.Error(t, err)
	assert.Nil(t, reservation)
	assert.Contains(t, err.Error(), "decode get response")
}

func TestReservationEndpointPaths(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		value    string
		expected string
	}{
		opHold:        {value: "", expected: "/reservations/hold"},
		opGet:         {value: " 12 ", expected: "/reservations/12"},
		opConfirm:     {value: "12", expected: "/reservations/12/confirm"},
		opCancel:      {value: "12", expected: "/reservations/12/cancel"},
		opGetMy:       {value: "", expected: "/reservations/my"},
		opGetByUserID: {value: "a/b", expected: "/reservations/user/a%2Fb"},
	}
	for op, tc := range cases {
		path, err := reservationEndpoints[op].path(tc.value)
		if err != nil {
			t.Fatalf("%s path builder failed: %v", op, err)
		}
		if path != tc.expected {
			t.Fatalf("%s: expected %s, got %s", op, tc.expected, path)
		}
	}
}
