package observability

import (
	"context"
	"testing"

	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

func TestParseHeaders(t *testing.T) {
	h := parseHeaders("x-api-key=abc, bad, =x, authorization=Bearer t")
	if len(h) != 2 || h["x-api-key"] != "abc" || h["authorization"] != "Bearer t" {
		t.Fatalf("headers=%v", h)
	}
	if parseHeaders("  ") != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func TestSampleRatioClamps(t *testing.T) {
	cases := map[string]float64{"": 1, "0.25": 0.25, "-1": 0, "7": 1, "junk": 1}
	for in, want := range cases {
		if got := sampleRatio(in); got != want {
			t.Fatalf("sampleRatio(%q)=%v want %v", in, got, want)
		}
	}
}

func TestInitOTelDisabledIsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), logger.Nop(), OtelConfig{Enabled: false})
	if shutdown == nil {
		t.Fatalf("shutdown must never be nil")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	ctx, span := StartSpan(context.Background(), "test")
	span.End()
	if ctx == nil {
		t.Fatalf("nil ctx")
	}
}
