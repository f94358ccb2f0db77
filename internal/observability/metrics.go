package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatsim_http_requests_total",
			Help: "Total number of HTTP requests processed by the chat simulator.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatsim_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	messagesAppendedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatsim_messages_appended_total",
			Help: "Total number of messages appended to the timeline.",
		},
		[]string{"origin"},
	)
	transportFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatsim_transport_failures_total",
			Help: "Total number of failed simulated transport calls.",
		},
		[]string{"op"},
	)
	turnsStartedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chatsim_turns_started_total",
			Help: "Total number of scripted participant turns started.",
		},
	)
	sessionsStartedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chatsim_sessions_started_total",
			Help: "Total number of identity sessions initialized.",
		},
	)
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatsim_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatsim_ws_events_total",
			Help: "Total number of websocket events.",
		},
		[]string{"event"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chatsim_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		messagesAppendedTotal,
		transportFailuresTotal,
		turnsStartedTotal,
		sessionsStartedTotal,
		wsActiveConnections,
		wsEventsTotal,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncMessageAppended(origin string) {
	messagesAppendedTotal.WithLabelValues(origin).Inc()
}

func IncTransportFailure(op string) {
	transportFailuresTotal.WithLabelValues(op).Inc()
}

func IncTurnStarted() {
	turnsStartedTotal.Inc()
}

func IncSessionStarted() {
	sessionsStartedTotal.Inc()
}

func IncWSActive() {
	wsActiveConnections.Inc()
}

func DecWSActive() {
	wsActiveConnections.Dec()
}

func IncWSEvent(event string) {
	wsEventsTotal.WithLabelValues(event).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
