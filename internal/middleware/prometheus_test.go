package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealshare/internal/metrics"
	appmiddleware "mealshare/internal/middleware"
)

func TestPrometheusMetrics_LabelsByRouteTemplate(t *testing.T) {
	e := echo.New()
	e.Use(appmiddleware.PrometheusMetrics)
	e.GET("/api/v1/meals/:slug", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/meals/:slug", "200")
	before := testutil.ToFloat64(counter)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/meals/spicy-tacos", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	// одна серия на шаблон маршрута, а не на каждый slug
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
