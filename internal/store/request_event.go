package store

import (
	"context"
	"fmt"
	"time"
)

// RequestEventData captures one backend API call for the request log.
type RequestEventData struct {
	RequestID    string
	Endpoint     string
	Status       int // 0 when no response was received
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// EndpointStats aggregates the request log per endpoint.
type EndpointStats struct {
	Endpoint     string
	Requests     int
	Failures     int
	AvgLatencyMs int64
}

// RequestLog records backend API calls and serves aggregate stats.
type RequestLog interface {
	// Append records a backend request event.
	Append(ctx context.Context, data RequestEventData) error

	// Stats returns per-endpoint aggregates over the whole log.
	Stats(ctx context.Context) ([]EndpointStats, error)
}

var _ RequestLog = (*Store)(nil)

// Append implements RequestLog.
func (s *Store) Append(ctx context.Context, data RequestEventData) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO request_events
			(request_id, endpoint, status, latency_ms, success, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		data.RequestID, data.Endpoint, data.Status, data.LatencyMs,
		boolToInt(data.Success), data.ErrorMessage, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("append request event: %w", err)
	}
	return nil
}

// Stats implements RequestLog.
func (s *Store) Stats(ctx context.Context) ([]EndpointStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT endpoint,
		       COUNT(*),
		       SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END),
		       CAST(AVG(latency_ms) AS INTEGER)
		FROM request_events
		GROUP BY endpoint
		ORDER BY endpoint`)
	if err != nil {
		return nil, fmt.Errorf("query request stats: %w", err)
	}
	defer rows.Close()

	var stats []EndpointStats
	for rows.Next() {
		var es EndpointStats
		if err := rows.Scan(&es.Endpoint, &es.Requests, &es.Failures, &es.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan request stats: %w", err)
		}
		stats = append(stats, es)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate request stats: %w", err)
	}
	return stats, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
