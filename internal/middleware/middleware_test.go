package middleware

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xyz-asif/civic-connect/internal/pkg/logger"
)

func TestLogger_MasksCodesAndSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	log := logger.New(logger.DEBUG)
	log.SetOutput(&buf)

	r := gin.New()
	r.Use(Logger(log))
	r.POST("/auth/verify", func(c *gin.Context) { c.Status(400) })

	req := httptest.NewRequest("POST", "/auth/verify", strings.NewReader(`{"target":"a@b.com","code":"123456"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.NotEmpty(t, w.Header().Get(RequestIDHeader))
	out := buf.String()
	require.NotContains(t, out, "123456")
	require.Contains(t, out, "********")
	require.Contains(t, out, "POST /auth/verify 400")
	require.Contains(t, out, "[WARN]")
}

func TestLogger_SkipsHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	log := logger.New(logger.DEBUG)
	log.SetOutput(&buf)

	r := gin.New()
	r.Use(Logger(log))
	r.GET("/health", func(c *gin.Context) { c.Status(200) })
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", nil))

	require.Empty(t, buf.String())
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS("http://localhost:3000, http://dept.local"))
	r.GET("/x", func(c *gin.Context) { c.Status(200) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/x", nil)
	req.Header.Set("Origin", "http://dept.local")
	r.ServeHTTP(w, req)
	require.Equal(t, 204, w.Code)
	require.Equal(t, "http://dept.local", w.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Origin", "http://evil.local")
	r.ServeHTTP(w, req)
	require.Equal(t, 200, w.Code)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
