package sendgrid

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
)

func TestSendBuildsWireRequest(t *testing.T) {
	var got mailSendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/mail/send" {
			t.Errorf("path=%s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer SG.test" {
			t.Errorf("auth=%q", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("X-Message-Id", "msg-123")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c, err := New(logger.Nop(), Config{APIKey: "SG.test", BaseURL: srv.URL, DefaultFromEmail: "hello@taiyaki.example", DefaultFromName: "Taiyaki"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := c.Send(context.Background(), SendEmailRequest{
		To:         []EmailAddress{{Email: "a@b.com"}},
		Subject:    "Your charm is ready",
		Text:       "plain",
		HTML:       "<p>html</p>",
		CustomArgs: map[string]string{"design_id": "d1"},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.MessageID != "msg-123" || res.StatusCode != http.StatusAccepted {
		t.Fatalf("result=%+v", res)
	}
	if got.From.Email != "hello@taiyaki.example" || got.From.Name != "Taiyaki" {
		t.Fatalf("from=%+v", got.From)
	}
	if len(got.Content) != 2 || got.Content[0].Type != "text/plain" || got.Content[1].Type != "text/html" {
		t.Fatalf("content=%+v", got.Content)
	}
	if got.Personalizations[0].CustomArgs["design_id"] != "d1" {
		t.Fatalf("custom args missing: %+v", got.Personalizations)
	}
}

func TestSendHTTPErrorSingleAttempt(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"errors":[{"message":"try later"}]}`))
	}))
	defer srv.Close()

	c, err := New(logger.Nop(), Config{APIKey: "SG.test", BaseURL: srv.URL, DefaultFromEmail: "x@y.z"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.Send(context.Background(), SendEmailRequest{To: []EmailAddress{{Email: "a@b.com"}}, Subject: "s", Text: "t"})
	var herr *HTTPError
	if !errors.As(err, &herr) || herr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 HTTPError, got %v", err)
	}
	if herr.Error() != "sendgrid http 503: try later" {
		t.Fatalf("message=%q", herr.Error())
	}
	if calls != 1 {
		t.Fatalf("calls=%d want 1", calls)
	}
}

func TestSendValidation(t *testing.T) {
	c, err := New(logger.Nop(), Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Send(context.Background(), SendEmailRequest{To: []EmailAddress{{Email: "a@b.com"}}, Subject: "s", Text: "t"}); err == nil {
		t.Fatalf("expected missing from error")
	}
}
