// Package notify defines operator notifications raised when landing pages
// start serving fallback statistics.
package notify

import (
	"context"
	"time"
)

// Severity constants recognised by downstream sinks.
const (
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// StatsFallbackPayload describes one scope whose stats are no longer live.
type StatsFallbackPayload struct {
	Scope       string
	Source      string   // "partial" or "fallback"
	Fields      []string // substituted fields
	Total       int
	AvgRate     int
	RemoteCount int
	Severity    string
	Recovered   bool
	OccurredAt  time.Time
}

// Sink describes a destination capable of consuming fallback notifications.
type Sink interface {
	SendStatsFallback(ctx context.Context, payload StatsFallbackPayload) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, payload StatsFallbackPayload) error

// SendStatsFallback implements the Sink interface.
func (f SinkFunc) SendStatsFallback(ctx context.Context, payload StatsFallbackPayload) error {
	if f == nil {
		return nil
	}
	return f(ctx, payload)
}
