package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coachprep/coachprep-backend/internal/pkg/ctxutil"
	"github.com/coachprep/coachprep-backend/internal/pkg/logger"
)

// quietPaths are scrape and health endpoints that would otherwise dominate
// the log volume.
var quietPaths = map[string]bool{
	"/healthcheck": true,
	"/metrics":     true,
}

// RequestLogger emits one line per request, severity-tiered on status. The
// trace and caller ids attached earlier in the chain ride along so a line
// can be joined to its trace and its user.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		if quietPaths[route] {
			return
		}

		status := c.Writer.Status()
		fields := requestFields(c, route, status, time.Since(start))
		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

func requestFields(c *gin.Context, route string, status int, dur time.Duration) []interface{} {
	fields := []interface{}{
		"method", strings.ToUpper(c.Request.Method),
		"route", route,
		"status", status,
		"duration_ms", dur.Milliseconds(),
		"bytes", c.Writer.Size(),
		"client_ip", c.ClientIP(),
	}
	if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
		if td.TraceID != "" {
			fields = append(fields, "trace_id", td.TraceID)
		}
		if td.RequestID != "" {
			fields = append(fields, "request_id", td.RequestID)
		}
	}
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil && rd.UserID != uuid.Nil {
		fields = append(fields, "user_id", rd.UserID.String())
	}
	return fields
}
