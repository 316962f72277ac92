package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/coachprep/coachprep-backend/internal/pkg/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
)

// AttachTraceContext gives every request a stable id pair: the trace id joins
// the request to its distributed trace, the request id is echoed in response
// headers and error envelopes so a client report can be matched to a log
// line. Both survive on the request context for the logger.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		td := &ctxutil.TraceData{
			TraceID:   requestTraceID(c),
			RequestID: requestID(c),
		}
		c.Request = c.Request.WithContext(ctxutil.WithTraceData(c.Request.Context(), td))
		c.Writer.Header().Set(headerTraceID, td.TraceID)
		c.Writer.Header().Set(headerRequestID, td.RequestID)
		c.Next()
	}
}

// requestTraceID prefers the active otel span so log lines join the exported
// trace, then an upstream header, then mints a fresh id.
func requestTraceID(c *gin.Context) string {
	if spanCtx := trace.SpanContextFromContext(c.Request.Context()); spanCtx.HasTraceID() {
		return spanCtx.TraceID().String()
	}
	if v := strings.TrimSpace(c.GetHeader(headerTraceID)); v != "" {
		return v
	}
	return uuid.New().String()
}

func requestID(c *gin.Context) string {
	if v := strings.TrimSpace(c.GetHeader(headerRequestID)); v != "" {
		return v
	}
	return uuid.New().String()
}
