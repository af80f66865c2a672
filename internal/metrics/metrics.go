package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Traffic: запросы к HTTP API по шаблону маршрута
	HTTPRequests *prometheus.CounterVec

	// Latency: время обработки запроса
	HTTPDuration *prometheus.HistogramVec

	// Комната: созданные встречи и сообщения по типу
	MeetingsCreated prometheus.Counter
	MessagesTotal   *prometheus.CounterVec

	// Ответы агентов в раундах обсуждения
	DiscussionResponses prometheus.Counter

	// Bridge: время проксирования и исход (ok, unreachable, unexpected)
	ForwardDuration *prometheus.HistogramVec

	// Saturation: состояние Circuit Breaker (0 - closed, 1 - half-open, 2 - open)
	CircuitBreakerState *prometheus.GaugeVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object: без реестра метрики пишутся в локальный, никуда не подключенный
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "paulis_http_requests_total",
			Help: "Total number of processed HTTP requests.",
		}, []string{"route", "method", "code"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "paulis_http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"route", "method"}),

		MeetingsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "paulis_meetings_created_total",
			Help: "Total number of created meetings.",
		}),

		MessagesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "paulis_messages_total",
			Help: "Total number of appended meeting messages.",
		}, []string{"message_type"}),

		DiscussionResponses: f.NewCounter(prometheus.CounterOpts{
			Name: "paulis_discussion_responses_total",
			Help: "Total number of agent responses generated in discussion rounds.",
		}),

		ForwardDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "paulis_bridge_forward_duration_seconds",
			Help:    "Histogram of upstream forward latencies.",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "outcome"}),

		CircuitBreakerState: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "paulis_bridge_circuit_breaker_state",
			Help: "Current state of the upstream circuit breaker (0=closed, 1=half-open, 2=open).",
		}, []string{"upstream"}),
	}
}

// Middleware считает запросы по шаблону маршрута chi, чтобы id встреч не раздували кардинальность.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		m.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(code)).Inc()
		m.HTTPDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
