package internal

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pushEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafeboard_push_events_total",
			Help: "Push events received, by event name",
		},
		[]string{"event"},
	)

	pushReconnectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cafeboard_push_reconnects_total",
			Help: "Successful reconnects after a dropped push connection",
		},
	)

	statsRefetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafeboard_stats_refetch_total",
			Help: "Aggregate refetches, by trigger",
		},
		[]string{"trigger"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafeboard_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cafeboard_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)
)

// PrometheusMiddleware collects request counts and latency for the
// local API.
func PrometheusMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(status)

		httpRequestsTotal.WithLabelValues(c.Method(), path, code).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), path, code).Observe(duration)

		return err
	}
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
