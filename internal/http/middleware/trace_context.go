package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/taiyaki-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
	// headerSessionID carries the storefront quiz session, when the client has one.
	headerSessionID = "X-Session-Id"
)

// AttachTraceContext tags each request with trace, request and optional
// session ids, and echoes them back as response headers.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		td := &ctxutil.TraceData{
			TraceID:   firstNonEmpty(c.GetHeader(headerTraceID), spanTraceID(c), uuid.NewString()),
			RequestID: firstNonEmpty(c.GetHeader(headerRequestID), uuid.NewString()),
		}
		ctx = ctxutil.WithTraceData(ctx, td)
		c.Set("trace_id", td.TraceID)
		c.Set("request_id", td.RequestID)
		c.Writer.Header().Set(headerTraceID, td.TraceID)
		c.Writer.Header().Set(headerRequestID, td.RequestID)

		if sid := strings.TrimSpace(c.GetHeader(headerSessionID)); sid != "" {
			ctx = ctxutil.WithSessionID(ctx, sid)
			SetSessionID(c, sid)
			c.Writer.Header().Set(headerSessionID, sid)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func spanTraceID(c *gin.Context) string {
	sc := trace.SpanContextFromContext(c.Request.Context())
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
