package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hotel_web"

var (
	once sync.Once

	backendCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_calls_total",
			Help:      "Reservation backend calls by operation and status class.",
		},
		[]string{"operation", "status"},
	)

	backendLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_call_duration_seconds",
			Help:      "Reservation backend call latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	websocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Open reservation websocket connections.",
		},
	)

	eventsConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_events_total",
			Help:      "Reservation events consumed by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(backendCalls, backendLatency, websocketClients, eventsConsumed)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// BackendRecorder feeds backend call observations into the counters.
type BackendRecorder struct{}

func (BackendRecorder) ObserveCall(operation string, status int, elapsed time.Duration) {
	backendCalls.WithLabelValues(operation, StatusClass(status)).Inc()
	backendLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// StatusClass buckets an HTTP status as "2xx", "4xx"...; 0 (no response) is "error".
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}

// WebsocketGauge counts open websocket sessions.
type WebsocketGauge struct{}

func (WebsocketGauge) Inc() { websocketClients.Inc() }
func (WebsocketGauge) Dec() { websocketClients.Dec() }

// IncEvent counts a consumed event as "broadcast", "dropped" or "invalid".
func IncEvent(outcome string) {
	eventsConsumed.WithLabelValues(outcome).Inc()
}
