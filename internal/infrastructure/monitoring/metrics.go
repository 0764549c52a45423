package monitoring

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. Each instance owns its registry so
// several collectors can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics (debug server)
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Remote session RPC metrics
	RPCCalls    *prometheus.CounterVec
	RPCDuration *prometheus.HistogramVec
	RPCErrors   *prometheus.CounterVec

	// Session metrics
	SessionsActive   prometheus.Gauge
	SessionsCreated  *prometheus.CounterVec
	StateTransitions *prometheus.CounterVec

	// Event channel metrics
	ChannelConnections prometheus.Gauge
	EventsDispatched   *prometheus.CounterVec

	startTime time.Time

	// Snapshot for JSON API
	snapshot MetricsSnapshot
	mu       sync.RWMutex
}

// MetricsSnapshot holds current metric values for the JSON API
type MetricsSnapshot struct {
	TotalRPCs      int64   `json:"total_rpcs"`
	TotalRPCErrors int64   `json:"total_rpc_errors"`
	ActiveSessions int64   `json:"active_sessions"`
	TotalEvents    int64   `json:"total_events"`
	RPCSeconds     float64 `json:"rpc_seconds"`
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "windowscene_http_requests_total",
				Help: "Total number of debug HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "windowscene_http_request_duration_seconds",
				Help:    "Debug HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),

		RPCCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "windowscene_rpc_calls_total",
				Help: "Total number of remote session calls",
			},
			[]string{"service", "method", "status"},
		),
		RPCDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "windowscene_rpc_duration_seconds",
				Help:    "Remote session call duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"service", "method"},
		),
		RPCErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "windowscene_rpc_errors_total",
				Help: "Total number of failed remote session calls",
			},
			[]string{"service", "method", "code"},
		),

		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "windowscene_sessions_active",
				Help: "Number of created and not yet destroyed window sessions",
			},
		),
		SessionsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "windowscene_sessions_created_total",
				Help: "Total number of window sessions created",
			},
			[]string{"class"},
		),
		StateTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "windowscene_state_transitions_total",
				Help: "Total number of window state transitions",
			},
			[]string{"from", "to"},
		),

		ChannelConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "windowscene_event_channel_connections",
				Help: "Number of connected event channels",
			},
		),
		EventsDispatched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "windowscene_events_dispatched_total",
				Help: "Total number of event channel requests",
			},
			[]string{"code", "result"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "windowscene_uptime_seconds",
			Help: "Process uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry returns the registry holding every collector
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus exposition handler for this collector
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records a debug HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRPC records one remote session call and its outcome
func (m *Metrics) RecordRPC(service, method string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
		m.RPCErrors.WithLabelValues(service, method, errorCode(err)).Inc()
	}
	m.RPCCalls.WithLabelValues(service, method, status).Inc()
	m.RPCDuration.WithLabelValues(service, method).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRPCs++
	m.snapshot.RPCSeconds += duration.Seconds()
	if err != nil {
		m.snapshot.TotalRPCErrors++
	}
	m.mu.Unlock()
}

func errorCode(err error) string {
	var wm types.WMError
	if errors.As(err, &wm) {
		return strconv.Itoa(int(wm))
	}
	return "transport"
}

// RecordSessionCreated counts a created session of a window class
func (m *Metrics) RecordSessionCreated(class string) {
	m.SessionsCreated.WithLabelValues(class).Inc()
	m.SessionsActive.Inc()

	m.mu.Lock()
	m.snapshot.ActiveSessions++
	m.mu.Unlock()
}

// RecordSessionDestroyed decrements the active session gauge
func (m *Metrics) RecordSessionDestroyed() {
	m.SessionsActive.Dec()

	m.mu.Lock()
	m.snapshot.ActiveSessions--
	m.mu.Unlock()
}

// RecordStateTransition counts a window state change
func (m *Metrics) RecordStateTransition(from, to string) {
	m.StateTransitions.WithLabelValues(from, to).Inc()
}

// RecordEvent counts an event channel request by opcode and transport result
func (m *Metrics) RecordEvent(code string, result int32) {
	m.EventsDispatched.WithLabelValues(code, strconv.Itoa(int(result))).Inc()

	m.mu.Lock()
	m.snapshot.TotalEvents++
	m.mu.Unlock()
}

// Snapshot returns the current JSON view
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
