package web

import (
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/PropertyLens/PropertyLens/internal/web/handler"
)

var (
	requestsOnce sync.Once              //nolint:gochecknoglobals
	requests     *prometheus.CounterVec //nolint:gochecknoglobals
)

func requestCounter() *prometheus.CounterVec {
	requestsOnce.Do(func() {
		requests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Number of handled HTTP requests, by method, route and status.",
			},
			[]string{"method", "route", "status"},
		)
	})

	return requests
}

// metricsMiddleware counts requests by their route pattern, so ids don't create new series.
func metricsMiddleware() fiber.Handler {
	counter := requestCounter()

	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status, _ = handler.Describe(err)
		}

		counter.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).Inc()

		return err
	}
}
