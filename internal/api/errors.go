package api

import (
	"encoding/json"
	"fmt"
)

// RequestError is the normalized failure for a backend call. Callers
// never see a raw transport error: every failure path produces one of
// these with a user-presentable Message.
type RequestError struct {
	// Status is the HTTP status code, or 0 when no response was
	// received (network failure or timeout).
	Status int

	// Message is the user-facing error description.
	Message string

	// Details carries the raw server response body, when one exists.
	Details json.RawMessage

	// NetworkError is true when no response was received at all.
	NetworkError bool
}

func (e *RequestError) Error() string {
	return e.Message
}

// InvalidResponseError indicates the server answered 2xx but the body
// did not conform to the expected response shape.
type InvalidResponseError struct {
	Content json.RawMessage
	Err     error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid response from server: %v", e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }
