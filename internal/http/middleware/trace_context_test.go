package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/taiyaki-backend/internal/platform/ctxutil"
)

func TestAttachTraceContextPropagatesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())

	var seen *ctxutil.TraceData
	r.GET("/healthcheck", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen == nil || seen.RequestID != "req-42" || seen.TraceID == "" {
		t.Fatalf("trace data=%+v", seen)
	}
	if rec.Header().Get("X-Request-Id") != "req-42" || rec.Header().Get("X-Trace-Id") != seen.TraceID {
		t.Fatalf("headers=%v", rec.Header())
	}
}

func TestAttachTraceContextCarriesSessionID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())

	var sid string
	var logged any
	r.GET("/healthcheck", func(c *gin.Context) {
		sid = ctxutil.SessionID(c.Request.Context())
		logged, _ = c.Get(ctxKeySessionID)
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set("X-Session-Id", " quiz-7 ")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if sid != "quiz-7" || logged != "quiz-7" {
		t.Fatalf("session id ctx=%q gin=%v", sid, logged)
	}
	if rec.Header().Get("X-Session-Id") != "quiz-7" {
		t.Fatalf("headers=%v", rec.Header())
	}
}

func TestAttachTraceContextGeneratesIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/healthcheck", func(c *gin.Context) {
		if ctxutil.SessionID(c.Request.Context()) != "" {
			t.Errorf("unexpected session id")
		}
		c.String(http.StatusOK, "ok")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Header().Get("X-Trace-Id") == "" || rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("missing generated ids: %v", rec.Header())
	}
	if rec.Header().Get("X-Session-Id") != "" {
		t.Fatalf("session header should be absent")
	}
}
