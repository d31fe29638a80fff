package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xyz-asif/civic-connect/internal/pkg/logger"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

// LoggerConfig controls the request logger
type LoggerConfig struct {
	LogRequestBody bool
	MaxBodySize    int64
	SkipPaths      []string
}

func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		LogRequestBody: true,
		MaxBodySize:    2048,
		SkipPaths:      []string{"/health", "/metrics"},
	}
}

// Logger writes one line per request through log. Request bodies are logged at
// DEBUG with credential-looking fields masked.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return LoggerWithConfig(log, DefaultLoggerConfig())
}

func LoggerWithConfig(log *logger.Logger, config LoggerConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("requestID", requestID)
		c.Header(RequestIDHeader, requestID)

		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}

		start := time.Now()

		if config.LogRequestBody && c.Request.Body != nil && c.Request.ContentLength > 0 &&
			c.Request.ContentLength <= config.MaxBodySize &&
			strings.Contains(c.GetHeader("Content-Type"), "application/json") {
			bodyBytes, err := io.ReadAll(io.LimitReader(c.Request.Body, config.MaxBodySize))
			if err == nil {
				c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
				log.Debug("[%s] body %s", requestID, sanitizeBody(bodyBytes))
			}
		}

		c.Next()

		status := c.Writer.Status()
		line := fmt.Sprintf("[%s] %s %s %d %v %s ip=%s", requestID, c.Request.Method, path, status,
			time.Since(start).Round(time.Microsecond), formatSize(int64(c.Writer.Size())), c.ClientIP())
		if p, ok := CurrentPrincipal(c); ok {
			line += fmt.Sprintf(" %s=%s", p.Role, p.Subject)
		}
		if len(c.Errors) > 0 {
			line += " errors=" + c.Errors.String()
		}

		switch {
		case status >= 500:
			log.Error("%s", line)
		case status >= 400:
			log.Warn("%s", line)
		default:
			log.Info("%s", line)
		}
	}
}

func formatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	if bytes < 1024 {
		return fmt.Sprintf("%dB", bytes)
	} else if bytes < 1024*1024 {
		return fmt.Sprintf("%.1fKB", float64(bytes)/1024)
	}
	return fmt.Sprintf("%.1fMB", float64(bytes)/(1024*1024))
}

func sanitizeBody(body []byte) string {
	var data interface{}
	if json.Unmarshal(body, &data) != nil {
		return "[unparseable body]"
	}
	out, err := json.Marshal(hideSensitiveFields(data))
	if err != nil {
		return "[unparseable body]"
	}
	return string(out)
}

func hideSensitiveFields(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitiveField(strings.ToLower(key)) {
				result[key] = "********"
			} else {
				result[key] = hideSensitiveFields(value)
			}
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = hideSensitiveFields(item)
		}
		return result
	default:
		return v
	}
}

func isSensitiveField(field string) bool {
	for _, s := range []string{"password", "token", "secret", "code", "credential"} {
		if strings.Contains(field, s) {
			return true
		}
	}
	return false
}
