package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voice-interview/internal/config"
)

func newTestClient(url, key string) *OpenAIClient {
	return NewOpenAIClient(config.OpenAIConfig{
		APIKey:      key,
		BaseURL:     url,
		Model:       "test-model",
		MaxTokens:   100,
		Temperature: 0.2,
	})
}

func TestComplete_NoKey(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1", "")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.Complete(ctx, []Message{{Role: "user", Content: "hi"}}, false); err == nil {
		t.Fatalf("expected error with missing key")
	}
}

func TestComplete_JSONModeRequestAndCleanup(t *testing.T) {
	var got OpenAIRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing bearer token")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"` + "```json\\n[1,2]\\n```" + `"}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL+"/", "key")
	out, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, true)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != "[1,2]" {
		t.Fatalf("unexpected content %q", out)
	}
	if got.Model != "test-model" || got.MaxTokens != 100 {
		t.Fatalf("unexpected request %+v", got)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_object" {
		t.Fatalf("json mode not requested")
	}
}

func TestComplete_HTTPFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status_non_2xx", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(500); _, _ = w.Write([]byte("oops")) }},
		{"bad_json", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("not-json")) }},
		{"empty_choices", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(200)
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}},
		{"api_error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(200)
			_, _ = w.Write([]byte(`{"error":{"message":"quota"}}`))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			c := newTestClient(srv.URL, "key")
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if _, err := c.Complete(ctx, []Message{{Role: "user", Content: "hi"}}, false); err == nil {
				t.Fatalf("expected error; got nil")
			}
		})
	}
}

func TestCleanJSONResponse(t *testing.T) {
	if got := CleanJSONResponse("```json\n{\"a\":1}\n```  "); got != `{"a":1}` {
		t.Fatalf("unexpected %q", got)
	}
}
