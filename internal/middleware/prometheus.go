package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"mealshare/internal/metrics"
)

// PrometheusMetrics считает запросы и их длительность. Метки берут
// шаблон маршрута (c.Path), а не реальный URI, чтобы /meals/:slug
// оставался одной серией на все значения slug.
func PrometheusMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		observeRequest(c, time.Since(start))
		return err
	}
}

func observeRequest(c echo.Context, elapsed time.Duration) {
	method := c.Request().Method
	route := c.Path()
	status := strconv.Itoa(c.Response().Status)

	metrics.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
