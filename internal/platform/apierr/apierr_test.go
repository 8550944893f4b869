package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestUpstreamCarriesStatusAndBody(t *testing.T) {
	cause := errors.New("boom")
	err := Upstream("shopify", 422, `{"errors":"title blank"}`, cause)
	if err.Status != http.StatusInternalServerError {
		t.Fatalf("status=%d want 500", err.Status)
	}
	if !strings.Contains(err.Error(), "422") {
		t.Fatalf("message %q missing upstream status", err.Error())
	}
	if err.Details != `{"errors":"title blank"}` {
		t.Fatalf("details=%q", err.Details)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable via errors.Is")
	}
}

func TestFromClassifies(t *testing.T) {
	wrapped := fmt.Errorf("render: %w", State("pending", "rendered"))
	got := From(wrapped)
	if got.Kind != KindState || got.Status != http.StatusBadRequest {
		t.Fatalf("got kind=%s status=%d", got.Kind, got.Status)
	}
	if !strings.Contains(got.Error(), `"pending"`) {
		t.Fatalf("state message should name current status: %q", got.Error())
	}

	plain := From(errors.New("disk full"))
	if plain.Kind != KindInternal || plain.Status != http.StatusInternalServerError {
		t.Fatalf("plain error classified as %s/%d", plain.Kind, plain.Status)
	}
	if From(nil) != nil {
		t.Fatalf("From(nil) should be nil")
	}
}

func TestIs(t *testing.T) {
	if !Is(Validation("bad email %q", "x"), KindValidation) {
		t.Fatalf("expected validation kind")
	}
	if Is(errors.New("x"), KindValidation) {
		t.Fatalf("plain error should not match")
	}
	if !Is(NotFound("missing"), KindNotFound) {
		t.Fatalf("expected not found kind")
	}
}
