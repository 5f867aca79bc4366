package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/heymarley/writebot/internal/profile"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *[]time.Duration) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(srv.URL, time.Second)
	var delays []time.Duration
	c.sleep = func(d time.Duration) { delays = append(delays, d) }
	return c, &delays
}

func sampleForm() profile.FormRecord {
	return profile.FormRecord{
		FullName: "Asha Rao",
		AgeGroup: profile.AgeGroup14to16,
		Hardest:  profile.HardestAnalyzing,
		Audience: profile.AudiencePeers,
	}
}

func TestGenerateScenario_RetriesServerErrorsWithBackoff(t *testing.T) {
	var attempts atomic.Int32
	c, delays := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
	})

	_, err := c.GenerateScenario(context.Background(), sampleForm())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := attempts.Load(); got != 3 {
		t.Fatalf("attempts = %d, want 3", got)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(*delays) != len(want) {
		t.Fatalf("delays = %v, want %v", *delays, want)
	}
	for i, d := range want {
		if (*delays)[i] != d {
			t.Fatalf("delay[%d] = %v, want %v", i, (*delays)[i], d)
		}
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error type = %T", err)
	}
	if reqErr.NetworkError {
		t.Fatal("HTTP 500 must not be classified as a network error")
	}
	if reqErr.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d", reqErr.Status)
	}
}

func TestGenerateScenario_NoRetryOnClientError(t *testing.T) {
	var attempts atomic.Int32
	c, delays := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, `{"detail":"bad form"}`, http.StatusBadRequest)
	})

	_, err := c.GenerateScenario(context.Background(), sampleForm())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := attempts.Load(); got != 1 {
		t.Fatalf("attempts = %d, want 1", got)
	}
	if len(*delays) != 0 {
		t.Fatalf("no backoff expected, got %v", *delays)
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.Message != "bad form" {
		t.Fatalf("error = %v", err)
	}
}

func TestGenerateScenario_RetriesNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	c := New(srv.URL, time.Second)
	var delays []time.Duration
	c.sleep = func(d time.Duration) { delays = append(delays, d) }

	_, err := c.GenerateScenario(context.Background(), sampleForm())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(delays) != 2 {
		t.Fatalf("delays = %v, want two backoffs", delays)
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || !reqErr.NetworkError {
		t.Fatalf("error = %v", err)
	}
}

func TestErrorNormalization(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "not found",
			status:  http.StatusNotFound,
			body:    `{}`,
			wantMsg: "Endpoint not found. Please check if the backend API is running.",
		},
		{
			name:    "server error with detail",
			status:  http.StatusInternalServerError,
			body:    `{"detail":"model exploded"}`,
			wantMsg: "Server error: model exploded",
		},
		{
			name:    "server error without detail",
			status:  http.StatusInternalServerError,
			body:    `not even json`,
			wantMsg: "Server error: An internal server error occurred",
		},
		{
			name:    "service unavailable",
			status:  http.StatusServiceUnavailable,
			body:    `{}`,
			wantMsg: "Service unavailable: The scenario service may be down or overloaded.",
		},
		{
			name:    "other status with server message",
			status:  http.StatusUnprocessableEntity,
			body:    `{"message":"age_group invalid"}`,
			wantMsg: "age_group invalid",
		},
		{
			name:    "other status without message",
			status:  http.StatusTeapot,
			body:    `{}`,
			wantMsg: "Error 418",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeStatus(tt.status, []byte(tt.body))
			if got.Message != tt.wantMsg {
				t.Fatalf("message = %q, want %q", got.Message, tt.wantMsg)
			}
			if got.Status != tt.status {
				t.Fatalf("status = %d, want %d", got.Status, tt.status)
			}
			if got.NetworkError {
				t.Fatal("HTTP failures are not network errors")
			}
		})
	}
}

func TestGenerateScenario_ParsesMixedExercises(t *testing.T) {
	body := `{
		"session_id": "sess-1",
		"scenario": "You are a sports journalist.",
		"exercises": [
			"Write 3 connected sentences about the final.",
			{"id": 2, "title": "Transitions", "focus": "Cohesion",
			 "description": "Practice transitions.",
			 "prompt": "Connect these pairs.",
			 "guidelines": ["Use however", "Use therefore"]}
		]
	}`
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		w.Write([]byte(body))
	})

	res, err := c.GenerateScenario(context.Background(), sampleForm())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.SessionID != "sess-1" || len(res.Exercises) != 2 {
		t.Fatalf("result = %+v", res)
	}

	first := res.Exercises[0]
	if first.Title != "Exercise 1" || first.Focus != "Writing Practice" {
		t.Fatalf("raw exercise not normalized: %+v", first)
	}
	if first.Prompt != "Write 3 connected sentences about the final." {
		t.Fatalf("raw exercise prompt = %q", first.Prompt)
	}
	second := res.Exercises[1]
	if second.Title != "Transitions" || len(second.Guidelines) != 2 {
		t.Fatalf("structured exercise = %+v", second)
	}
}

func TestGenerateScenario_RejectsMalformedEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing session_id", `{"scenario":"s","exercises":["a"]}`},
		{"empty exercises", `{"session_id":"x","scenario":"s","exercises":[]}`},
		{"numeric exercise", `{"session_id":"x","scenario":"s","exercises":[42]}`},
		{"not json", `<html>oops</html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			_, err := c.GenerateScenario(context.Background(), sampleForm())
			var invalid *InvalidResponseError
			if !errors.As(err, &invalid) {
				t.Fatalf("error = %v, want InvalidResponseError", err)
			}
		})
	}
}

func TestSendMessage_ReplyFieldVariants(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"reply field", `{"reply":"Nice work!"}`, "Nice work!"},
		{"response field", `{"response":"Keep going."}`, "Keep going."},
		{"message field", `{"message":"Try again."}`, "Try again."},
		{"bare string", `"Well done."`, "Well done."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			got, err := c.SendMessage(context.Background(), "sess-1", "hello")
			if err != nil {
				t.Fatalf("send: %v", err)
			}
			if got != tt.want {
				t.Fatalf("reply = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStartExercise_PropagatesError(t *testing.T) {
	var attempts atomic.Int32
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, `{"detail":"no session"}`, http.StatusInternalServerError)
	})

	_, err := c.StartExercise(context.Background(), "sess-1", "Transitions", "desc")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := attempts.Load(); got != 1 {
		t.Fatalf("start must not retry, attempts = %d", got)
	}
}

func TestWithRequestID_HeaderUsed(t *testing.T) {
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Request-ID"); got != "fixed-id" {
			t.Errorf("X-Request-ID = %q", got)
		}
		w.Write([]byte(`{"reply":"ok"}`))
	})

	ctx := WithRequestID(context.Background(), "fixed-id")
	if _, err := c.SendMessage(ctx, "s", "m"); err != nil {
		t.Fatalf("send: %v", err)
	}
}
