package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/taiyaki-backend/internal/platform/ctxutil"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		ctx := c.Request.Context()
		td := ctxutil.GetTraceData(ctx)

		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if td != nil {
			if td.TraceID != "" {
				fields = append(fields, "trace_id", td.TraceID)
			}
			if td.RequestID != "" {
				fields = append(fields, "request_id", td.RequestID)
			}
		}
		if sid, ok := c.Get(ctxKeySessionID); ok {
			if s, _ := sid.(string); s != "" {
				fields = append(fields, "session_id", s)
			}
		}

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

// ctxKeySessionID is set by handlers that allocate a fulfillment session.
const ctxKeySessionID = "session_id"

func SetSessionID(c *gin.Context, sessionID string) {
	if sessionID != "" {
		c.Set(ctxKeySessionID, sessionID)
	}
}
