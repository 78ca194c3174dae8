package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func replyWith(t *testing.T, choice map[string]any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{"choices": []any{choice}}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}
}

func noSleep() []Option {
	return []Option{WithRetryBackoff(0, 0), WithSleeper(func(time.Duration) {})}
}

func TestCompleteSendsPromptsAndReturnsText(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test" {
			t.Errorf("unexpected auth header %q", got)
		}
		if got := r.Header.Get("X-Title"); got != "Vibeline" {
			t.Errorf("unexpected title header %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		replyWith(t, map[string]any{"message": map[string]any{"content": "  Drop it low.  "}})(w, r)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo", Title: "Vibeline"})
	text, err := client.Complete(context.Background(), "be a DJ", "hype this")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if text != "Drop it low." {
		t.Fatalf("unexpected text %q", text)
	}
	if captured.Model != "demo" || len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("unexpected request %+v", captured)
	}
	if captured.ResponseFormat != nil {
		t.Fatal("plain completion must not request a JSON response format")
	}
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	if _, err := client.Complete(context.Background(), "", "hello"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestHealthCheckHandlesCodeFence(t *testing.T) {
	server := httptest.NewServer(replyWith(t, map[string]any{
		"message": map[string]any{"content": "```json\n{\"ok\":true}\n```"},
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestHealthCheckFailsOnUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL})
	err := client.HealthCheck(context.Background())
	var status *StatusError
	if !errors.As(err, &status) || status.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 status error, got %v", err)
	}
}

func TestReplyFromDeltaTextAndToolCalls(t *testing.T) {
	cases := map[string]map[string]any{
		"delta": {"delta": map[string]any{"content": "from delta"}},
		"text":  {"text": "from text"},
		"tool": {"message": map[string]any{"tool_calls": []any{
			map[string]any{"function": map[string]any{"arguments": "from tool"}},
		}}},
	}
	for name, choice := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(replyWith(t, choice))
			defer server.Close()
			client := NewClient(Config{APIKey: "test", BaseURL: server.URL})
			text, err := client.Complete(context.Background(), "", "hi")
			if err != nil {
				t.Fatalf("Complete: %v", err)
			}
			if text != "from "+name {
				t.Fatalf("unexpected text %q", text)
			}
		})
	}
}

func TestEmptyContentErrorIncludesSnippet(t *testing.T) {
	server := httptest.NewServer(replyWith(t, map[string]any{
		"finish_reason": "stop",
		"message":       map[string]any{"content": ""},
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL}, append(noSleep(), WithRetryMaxAttempts(2))...)
	_, err := client.Complete(context.Background(), "", "hi")
	if err == nil {
		t.Fatal("expected empty content to fail")
	}
	if !strings.Contains(err.Error(), "empty content") || !strings.Contains(err.Error(), "response_snippet=") {
		t.Fatalf("expected snippet in error, got %v", err)
	}
	if !strings.Contains(err.Error(), "failed after 2 attempts") {
		t.Fatalf("expected retries to be exhausted, got %v", err)
	}
}

func TestRetriesOnTooManyRequestsHonourRetryAfter(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		replyWith(t, map[string]any{"message": map[string]any{"content": "ok"}})(w, r)
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
		WithRetryBackoff(0, 10*time.Second),
	)
	text, err := client.Complete(context.Background(), "", "hi")
	if err != nil || text != "ok" {
		t.Fatalf("Complete = %q, %v", text, err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("expected one 1s sleep, got %v", slept)
	}
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL}, noSleep()...)
	if _, err := client.Complete(context.Background(), "", "hi"); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestCancelledContextStopsImmediately(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	client := NewClient(Config{APIKey: "test", BaseURL: server.URL}, noSleep()...)
	_, err := client.Complete(ctx, "", "hi")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestBackoffDoublesAndCaps(t *testing.T) {
	client := NewClient(Config{}, WithRetryBackoff(time.Second, 5*time.Second))
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second, 5 * time.Second}
	for i, expected := range want {
		if got := client.backoff(i + 1); got != expected {
			t.Fatalf("backoff(%d) = %v, want %v", i+1, got, expected)
		}
	}
}

func TestDecodeJSONExtractsObject(t *testing.T) {
	var out struct {
		OK bool `json:"ok"`
	}
	if err := DecodeJSON("Sure! Here you go: {\"ok\": true} hope that helps", &out); err != nil || !out.OK {
		t.Fatalf("DecodeJSON = %v, %+v", err, out)
	}
	if err := DecodeJSON("   ", &out); err == nil {
		t.Fatal("expected empty payload to fail")
	}
}

func TestCleanText(t *testing.T) {
	cases := map[string]string{
		"\"Next up, pure fire.\"":   "Next up, pure fire.",
		"  spaced\n\n out  ":        "spaced out",
		"```\nfenced shout\n```":    "fenced shout",
		"“Curly quoted energy.”":    "Curly quoted energy.",
		"It's 'quoted' inside only": "It's 'quoted' inside only",
	}
	for in, want := range cases {
		if got := CleanText(in); got != want {
			t.Fatalf("CleanText(%q) = %q, want %q", in, got, want)
		}
	}
}
