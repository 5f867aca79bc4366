// Package api wraps the onboarding backend's three HTTP operations with
// error normalization and a retry policy tuned for generative-model
// latency.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heymarley/writebot/internal/profile"
	"github.com/heymarley/writebot/internal/scenario"
)

const (
	// DefaultTimeout allows for slow LLM-backed responses.
	DefaultTimeout = 60 * time.Second

	scenarioPath = "/api/onboarding/scenario"
	startPath    = "/api/onboarding/exercise/start"
	chatPath     = "/api/onboarding/exercise/chat"

	// Scenario generation retries transient failures up to maxRetries
	// times (maxRetries+1 attempts total) with a linear backoff of
	// retryBaseDelay * attempt number.
	maxRetries     = 2
	retryBaseDelay = 1000 * time.Millisecond
)

// Service is the backend surface the UI depends on.
type Service interface {
	// GenerateScenario posts the intake form and returns the generated
	// scenario with normalized exercises.
	GenerateScenario(ctx context.Context, rec profile.FormRecord) (*scenario.Result, error)

	// StartExercise begins an exercise session and returns the opaque
	// session payload.
	StartExercise(ctx context.Context, sessionID, title, description string) (json.RawMessage, error)

	// SendMessage posts one chat turn and returns the tutor's reply.
	SendMessage(ctx context.Context, sessionID, message string) (string, error)
}

// Client talks to the onboarding backend over JSON HTTP.
type Client struct {
	baseURL string
	httpc   *http.Client

	// sleep is replaceable in tests to observe backoff delays.
	sleep func(time.Duration)
}

var _ Service = (*Client)(nil)

// New creates a Client for the given base URL. A zero timeout uses
// DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		sleep:   time.Sleep,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GenerateScenario implements Service. Pure network failures and 5xx
// responses are retried with backoff delays of retryBaseDelay,
// 2*retryBaseDelay; 4xx responses are surfaced immediately.
func (c *Client) GenerateScenario(ctx context.Context, rec profile.FormRecord) (*scenario.Result, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		body, err := c.post(ctx, scenarioPath, rec)
		if err == nil {
			return decodeScenario(body)
		}
		lastErr = err

		var reqErr *RequestError
		if !errors.As(err, &reqErr) || !retryable(reqErr) || attempt == maxRetries {
			return nil, err
		}
		c.sleep(retryBaseDelay * time.Duration(attempt+1))
	}
	return nil, lastErr
}

// StartExercise implements Service. No retry: starting twice could open
// two tutor sessions server-side.
func (c *Client) StartExercise(ctx context.Context, sessionID, title, description string) (json.RawMessage, error) {
	payload := map[string]any{
		"session_id":     sessionID,
		"exercise_title": title,
	}
	if description != "" {
		payload["exercise_description"] = description
	}

	body, err := c.post(ctx, startPath, payload)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// SendMessage implements Service. No retry.
func (c *Client) SendMessage(ctx context.Context, sessionID, message string) (string, error) {
	body, err := c.post(ctx, chatPath, map[string]string{
		"session_id": sessionID,
		"message":    message,
	})
	if err != nil {
		return "", err
	}
	return parseReply(body), nil
}

// retryable reports whether a failure is worth retrying: a pure network
// failure (no response) or a server-side 5xx. Client errors are not.
func retryable(e *RequestError) bool {
	return e.NetworkError || e.Status >= 500
}

// post issues one JSON POST and normalizes every failure path into a
// *RequestError.
func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, &RequestError{Message: fmt.Sprintf("encode request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, &RequestError{Message: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	id := RequestIDFrom(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", id)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, c.networkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.networkError(err)
	}

	if resp.StatusCode >= 400 {
		return nil, normalizeStatus(resp.StatusCode, body)
	}
	return body, nil
}

// networkError classifies a no-response failure.
func (c *Client) networkError(err error) *RequestError {
	msg := fmt.Sprintf("Network error: unable to connect to the server. "+
		"Please check if the backend is running on %s", c.baseURL)
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		msg = "Request timed out. The server may be processing your request. Please try again."
	}
	return &RequestError{Message: msg, NetworkError: true}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// normalizeStatus maps an HTTP error status to a user-facing message,
// preferring a server-supplied message when one is present.
func normalizeStatus(status int, body []byte) *RequestError {
	serverMsg := serverMessage(body)

	var msg string
	switch status {
	case http.StatusNotFound:
		msg = "Endpoint not found. Please check if the backend API is running."
	case http.StatusInternalServerError:
		if serverMsg == "" {
			serverMsg = "An internal server error occurred"
		}
		msg = "Server error: " + serverMsg
	case http.StatusServiceUnavailable:
		msg = "Service unavailable: The scenario service may be down or overloaded."
	default:
		if serverMsg != "" {
			msg = serverMsg
		} else {
			msg = fmt.Sprintf("Error %d", status)
		}
	}

	return &RequestError{Status: status, Message: msg, Details: json.RawMessage(body)}
}

// serverMessage pulls the first usable message field out of an error
// response body. The backend emits "detail" (FastAPI convention); other
// deployments have used "message" and "error".
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, m := range []string{payload.Message, payload.Error, payload.Detail} {
		if m != "" {
			return m
		}
	}
	return ""
}

// decodeScenario validates and unmarshals a scenario response.
func decodeScenario(body []byte) (*scenario.Result, error) {
	if err := validateScenarioResponse(body); err != nil {
		return nil, err
	}
	var res scenario.Result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &InvalidResponseError{Content: body, Err: err}
	}
	norm := res.Normalized()
	return &norm, nil
}

// parseReply extracts the tutor's reply text from a chat response. The
// body may be a JSON object with a reply-ish field or a bare string.
func parseReply(body []byte) string {
	var payload struct {
		Reply    string `json:"reply"`
		Response string `json:"response"`
		Message  string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, m := range []string{payload.Reply, payload.Response, payload.Message} {
			if m != "" {
				return m
			}
		}
	}

	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(body))
}
