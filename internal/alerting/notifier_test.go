package alerting

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestOneSignalNotifierSuccess(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/notifications") {
			t.Fatalf("path should end in /notifications, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Basic key" {
			t.Fatalf("unexpected authorization %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "abc"})
	}))
	defer srv.Close()

	n := NewOneSignalNotifier(OneSignalOptions{
		AppID: "app", APIKey: "key", AndroidChannelID: "chan", APIBase: srv.URL, Timeout: time.Second,
	}, testLogger())

	err := n.Notify(context.Background(), Notification{Title: "t", Body: "b"})
	if err != nil {
		t.Fatalf("notify should succeed: %v", err)
	}
	if received["app_id"] != "app" {
		t.Fatalf("app_id missing: %#v", received)
	}
	if segments, _ := received["included_segments"].([]any); len(segments) != 1 || segments[0] != "All" {
		t.Fatalf("expected All segment: %#v", received["included_segments"])
	}
}

func TestOneSignalNotifierRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"errors": []string{"invalid app id"}})
	}))
	defer srv.Close()

	n := NewOneSignalNotifier(OneSignalOptions{AppID: "app", APIKey: "key", APIBase: srv.URL}, testLogger())
	if err := n.Notify(context.Background(), Notification{Title: "t", Body: "b"}); err == nil {
		t.Fatal("errors in response body should fail the send")
	}
}

func TestOneSignalNotifierHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewOneSignalNotifier(OneSignalOptions{AppID: "app", APIKey: "key", APIBase: srv.URL}, testLogger())
	if err := n.Notify(context.Background(), Notification{Title: "t", Body: "b"}); err == nil {
		t.Fatal("HTTP 400 should fail the send")
	}
}

func TestTelegramNotifierSuccess(t *testing.T) {
	received := make(map[string]string)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "sendMessage") {
			t.Fatalf("path should contain sendMessage, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())
	if err := n.Notify(context.Background(), Notification{Title: "t", Body: "b"}); err != nil {
		t.Fatalf("notify should succeed: %v", err)
	}
	if received["chat_id"] != "chat" {
		t.Fatalf("chat_id mismatch: %#v", received)
	}
	if received["text"] != "t\nb" {
		t.Fatalf("text should be title+body: %q", received["text"])
	}
}

func TestTelegramNotifierNotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false})
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())
	if err := n.Notify(context.Background(), Notification{Title: "t", Body: "b"}); err == nil {
		t.Fatal("ok=false should fail the send")
	}
}

type stubNotifier struct {
	err   error
	calls int
}

func (s *stubNotifier) Notify(ctx context.Context, note Notification) error {
	s.calls++
	return s.err
}

func TestFanoutReportsAnyFailure(t *testing.T) {
	good := &stubNotifier{}
	bad := &stubNotifier{err: errors.New("channel down")}

	err := Fanout{good, bad}.Notify(context.Background(), Notification{Title: "t"})
	if err == nil {
		t.Fatal("fanout must surface a failed channel")
	}
	if good.calls != 1 || bad.calls != 1 {
		t.Fatalf("every channel should be attempted: %d/%d", good.calls, bad.calls)
	}
}
