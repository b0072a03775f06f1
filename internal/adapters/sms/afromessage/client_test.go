package afromessage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dairy-herd-manager/internal/platform/logger"
	"dairy-herd-manager/internal/ports/sms"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	c := New(Options{
		BaseURL: ts.URL,
		Token:   "test-token",
		Sender:  "HERD",
		Timeout: 2 * time.Second,
	}, logger.New(logger.Options{Level: logger.Error}))
	return c, ts
}

func TestSend_Success(t *testing.T) {
	var gotAuth, gotTo string
	c, ts := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotTo = r.URL.Query().Get("to")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"acknowledge":"success","response":{"message_id":"ref-1"}}`))
	})
	defer ts.Close()

	res, err := c.Send(context.Background(), "+251912345678", "hello")
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if res.Status != sms.StatusSent {
		t.Fatalf("expected sent, got %s (%s)", res.Status, res.Err)
	}
	if res.ProviderRef != "ref-1" {
		t.Fatalf("expected provider ref ref-1, got %q", res.ProviderRef)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("expected bearer auth header, got %q", gotAuth)
	}
	if gotTo != "+251912345678" {
		t.Fatalf("expected to param, got %q", gotTo)
	}
}

func TestSend_ProviderRejects(t *testing.T) {
	c, ts := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"acknowledge":"error","response":{"message":"invalid recipient"}}`))
	})
	defer ts.Close()

	res, err := c.Send(context.Background(), "+251912345678", "hello")
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if res.Status != sms.StatusFailed {
		t.Fatalf("expected failed, got %s", res.Status)
	}
	if res.Err != "invalid recipient" {
		t.Fatalf("expected provider error text, got %q", res.Err)
	}
}

func TestSend_HTTPError(t *testing.T) {
	c, ts := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})
	defer ts.Close()

	res, err := c.Send(context.Background(), "+251912345678", "hello")
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if res.Status != sms.StatusFailed {
		t.Fatalf("expected failed on 502, got %s", res.Status)
	}
	if res.Err == "" {
		t.Fatalf("expected error text for http failure")
	}
}

func TestSend_DevModeWithoutToken(t *testing.T) {
	c := New(Options{Timeout: time.Second}, logger.New(logger.Options{Level: logger.Error}))

	res, err := c.Send(context.Background(), "+251912345678", "hello")
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if res.Status != sms.StatusSent {
		t.Fatalf("dev mode should report sent, got %s", res.Status)
	}
	if res.ProviderRef != "dev" {
		t.Fatalf("dev mode should mark provider ref, got %q", res.ProviderRef)
	}
}
