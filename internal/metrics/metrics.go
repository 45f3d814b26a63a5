package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recalculation outcomes used as the status label
const (
	StatusOK    = "ok"
	StatusError = "error"
)

var (
	// Registry holds the liftmeet collectors
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "liftmeet",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "liftmeet",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "liftmeet",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	recalculations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "liftmeet",
			Name:      "recalculations_total",
			Help:      "Total number of contest recalculation passes.",
		},
		[]string{"status"},
	)

	recalculationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "liftmeet",
			Name:      "recalculation_duration_seconds",
			Help:      "Duration of contest recalculation passes.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	broadcasts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "liftmeet",
			Subsystem: "websocket",
			Name:      "broadcasts_total",
			Help:      "Total number of scoreboard messages broadcast.",
		},
		[]string{"type"},
	)

	wsClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "liftmeet",
			Subsystem: "websocket",
			Name:      "clients",
			Help:      "Connected scoreboard clients.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		recalculations,
		recalculationDuration,
		broadcasts,
		wsClients,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler records request counts and latency labelled by chi route pattern
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := routePattern(r)
		method := strings.ToUpper(r.Method)
		httpRequests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

// RecordRecalculation records one contest recalculation pass
func RecordRecalculation(status string, duration time.Duration) {
	if duration <= 0 {
		duration = time.Microsecond
	}
	recalculations.WithLabelValues(status).Inc()
	recalculationDuration.Observe(duration.Seconds())
}

// RecordBroadcast counts a websocket message by type
func RecordBroadcast(msgType string) {
	broadcasts.WithLabelValues(msgType).Inc()
}

// SetWebsocketClients reports the number of connected clients
func SetWebsocketClients(n int) {
	wsClients.Set(float64(n))
}

// routePattern avoids one label per contest id by using the matched chi pattern
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the instrumented writer
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return h.Hijack()
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
