package api

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/heymarley/writebot/internal/profile"
	"github.com/heymarley/writebot/internal/scenario"
	"github.com/heymarley/writebot/internal/store"
)

// loggingService wraps a Service and records every call in the request
// log. Logging failures never fail the wrapped call.
type loggingService struct {
	inner Service
	log   store.RequestLog
}

// WithLogging decorates a Service so each backend call is recorded with
// its request ID, endpoint, status and latency.
func WithLogging(inner Service, log store.RequestLog) Service {
	if log == nil {
		return inner
	}
	return &loggingService{inner: inner, log: log}
}

func (l *loggingService) GenerateScenario(ctx context.Context, rec profile.FormRecord) (*scenario.Result, error) {
	ctx, id := ensureRequestID(ctx)
	start := time.Now()
	res, err := l.inner.GenerateScenario(ctx, rec)
	l.record(ctx, id, scenarioPath, start, err)
	return res, err
}

func (l *loggingService) StartExercise(ctx context.Context, sessionID, title, description string) (json.RawMessage, error) {
	ctx, id := ensureRequestID(ctx)
	start := time.Now()
	res, err := l.inner.StartExercise(ctx, sessionID, title, description)
	l.record(ctx, id, startPath, start, err)
	return res, err
}

func (l *loggingService) SendMessage(ctx context.Context, sessionID, message string) (string, error) {
	ctx, id := ensureRequestID(ctx)
	start := time.Now()
	res, err := l.inner.SendMessage(ctx, sessionID, message)
	l.record(ctx, id, chatPath, start, err)
	return res, err
}

func ensureRequestID(ctx context.Context) (context.Context, string) {
	if id := RequestIDFrom(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return WithRequestID(ctx, id), id
}

func (l *loggingService) record(ctx context.Context, id, endpoint string, start time.Time, callErr error) {
	ev := store.RequestEventData{
		RequestID: id,
		Endpoint:  endpoint,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   callErr == nil,
	}
	if callErr != nil {
		ev.ErrorMessage = callErr.Error()
		if reqErr, ok := callErr.(*RequestError); ok {
			ev.Status = reqErr.Status
		}
	} else {
		ev.Status = 200
	}

	if err := l.log.Append(ctx, ev); err != nil {
		fmt.Fprintf(os.Stderr, "warning: record request event: %v\n", err)
	}
}
