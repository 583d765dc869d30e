package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	gatherer      prometheus.Gatherer
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	decisions     *prometheus.CounterVec
	autoApprovals *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hris",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of API requests broken down by route and status.",
		}, []string{"method", "route", "status"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hris",
			Subsystem: "api",
			Name:      "latency_seconds",
			Help:      "Latency distribution for API requests.",
			Buckets: []float64{
				0.001, 0.005, 0.01,
				0.05, 0.1, 0.5,
				1, 2, 5,
			},
		}, []string{"method", "route"}),
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hris",
			Subsystem: "workflow",
			Name:      "decisions_total",
			Help:      "Approve/reject decisions by request kind and action.",
		}, []string{"kind", "action"}),
		autoApprovals: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hris",
			Subsystem: "workflow",
			Name:      "auto_approvals_total",
			Help:      "Requests stored already approved because of the creator's grade.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveDecision(kind, action string) {
	m.decisions.WithLabelValues(kind, action).Inc()
}

func (m *Metrics) ObserveAutoApproval(kind string) {
	m.autoApprovals.WithLabelValues(kind).Inc()
}
