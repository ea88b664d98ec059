package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SwapTransitions counts swap requests entering each status.
	SwapTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_swap_transitions_total",
		Help: "Total number of swap requests entering a status",
	}, []string{"status"})

	// FeedbackSubmitted counts accepted feedback submissions.
	FeedbackSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillswap_feedback_submitted_total",
		Help: "Total number of feedback entries submitted",
	})

	// CacheErrors counts redis errors swallowed by the cache by operation.
	CacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_cache_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// HTTPRequestDuration records request latency by route, method and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skillswap_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Middleware observes the latency of every request under its route pattern.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			HTTPRequestDuration.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}
