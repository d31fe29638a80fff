package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Register()

	r := gin.New()
	r.Use(Middleware())
	r.GET("/reports/:reportId", func(c *gin.Context) { c.Status(204) })
	r.GET("/metrics", Handler())

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/reports/:reportId", "204"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/reports/RPT-1", nil))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/reports/:reportId", "204"))
	require.Equal(t, before+1, after)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, w.Code)
	require.Contains(t, w.Body.String(), "http_requests_total")
}
