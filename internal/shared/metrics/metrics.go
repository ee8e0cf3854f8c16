package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	CVsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cv_created_total",
			Help: "CVs created, split by free or paid",
		},
		[]string{"kind"},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payment state changes by method and resulting status",
		},
		[]string{"method", "status"},
	)

	PaymentEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_events_total",
			Help: "Provider payment events by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	ATSScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ats_score",
			Help:    "Distribution of computed ATS scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)
)

// IncCVCreated counts a created CV. kind is "free" or "paid".
func IncCVCreated(kind string) {
	CVsCreatedTotal.WithLabelValues(kind).Inc()
}

// IncPayment counts a payment reaching status.
func IncPayment(method, status string) {
	PaymentsTotal.WithLabelValues(method, status).Inc()
}

// IncPaymentEvent counts a provider event. source is "webhook", "verify" or "worker".
func IncPaymentEvent(source, outcome string) {
	PaymentEventsTotal.WithLabelValues(source, outcome).Inc()
}

// ObserveATSScore records a computed score.
func ObserveATSScore(score int) {
	ATSScore.Observe(float64(score))
}

// Middleware records request counts and latency keyed by the matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
