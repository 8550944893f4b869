package httpx

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPStatusCoder is implemented by vendor client errors that carry the
// upstream response status.
type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

// HTTPBodyer is implemented by vendor client errors that keep the upstream body.
type HTTPBodyer interface {
	HTTPBody() string
}

// StatusAndBody extracts upstream status and body from err, if present.
func StatusAndBody(err error) (int, string) {
	status, body := 0, ""
	var sc HTTPStatusCoder
	if errors.As(err, &sc) {
		status = sc.HTTPStatusCode()
	}
	var b HTTPBodyer
	if errors.As(err, &b) {
		body = b.HTTPBody()
	}
	return status, body
}

func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// ReadBody reads at most limit bytes of a response body.
func ReadBody(r io.Reader, limit int64) string {
	if limit <= 0 {
		limit = 1 << 20
	}
	b, _ := io.ReadAll(io.LimitReader(r, limit))
	return strings.TrimSpace(string(b))
}

func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}
