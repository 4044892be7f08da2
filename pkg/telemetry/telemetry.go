// Package telemetry exposes Prometheus metrics for the HTTP surface and the
// board domain, plus a lightweight slow-request log.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/XiChenQi2025/taoci-magic/pkg/logger"
)

var slowThreshold = 200 * time.Millisecond

// Metrics bundles every collector the server registers.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	MessagesPosted  prometheus.Counter
	LikesGiven      prometheus.Counter
	ReportsFiled    prometheus.Counter
	AnswersDrawn    *prometheus.CounterVec
	NavChanges      prometheus.Counter

	registry *prometheus.Registry
}

// New builds and registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taoci_http_requests_total",
				Help: "HTTP requests by path and status class",
			},
			[]string{"path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taoci_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path"},
		),
		MessagesPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taoci_board_messages_posted_total",
			Help: "Messages and replies posted to the board",
		}),
		LikesGiven: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taoci_board_likes_total",
			Help: "Likes applied to board messages",
		}),
		ReportsFiled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taoci_board_reports_total",
			Help: "New report flags filed",
		}),
		AnswersDrawn: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taoci_answers_drawn_total",
				Help: "Answer book draws by pool",
			},
			[]string{"pool"},
		),
		NavChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taoci_nav_changes_total",
			Help: "Router page changes",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(m.Requests)
	m.registry.MustRegister(m.RequestDuration)
	m.registry.MustRegister(m.MessagesPosted)
	m.registry.MustRegister(m.LikesGiven)
	m.registry.MustRegister(m.ReportsFiled)
	m.registry.MustRegister(m.AnswersDrawn)
	m.registry.MustRegister(m.NavChanges)
	return m
}

// Handler serves the /metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count and latency and logs slow requests.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(srw, r)
		dur := time.Since(start)

		m.Requests.WithLabelValues(r.URL.Path, statusClass(srw.status)).Inc()
		m.RequestDuration.WithLabelValues(r.URL.Path).Observe(dur.Seconds())

		if dur > slowThreshold {
			logger.Warn("slow_request", "path", r.URL.Path, "method", r.Method, "duration_ms", dur.Milliseconds(), "status", srw.status)
		}
	})
}

// SetSlowThreshold sets the duration above which requests get a warn log.
func SetSlowThreshold(d time.Duration) {
	if d > 0 {
		slowThreshold = d
	}
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// statusRecorder captures the response status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
