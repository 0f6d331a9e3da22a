// Package storage defines persistence contracts for batch observability
// records. The graph itself lives in memory for a session and is never
// persisted here.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record does not exist.
var ErrNotFound = errors.New("not found")

// PromptExchange is one correction-service round captured for debugging.
type PromptExchange struct {
	Kind     string `json:"kind"`
	Prompt   string `json:"prompt"`
	Response string `json:"response,omitempty"`
	Err      string `json:"err,omitempty"`
}

// BatchTrace is the debug record for one patch application attempt. It is
// observability-only; correctness never depends on it.
type BatchTrace struct {
	ID               string
	StartedAt        time.Time
	FinishedAt       time.Time
	Outcome          string
	Exchanges        []PromptExchange
	ValidationErrors []string
	Warnings         []string
	DroppedNodes     []string
	DroppedEdges     []string
}

// TraceStore persists batch traces.
type TraceStore interface {
	AppendBatchTrace(ctx context.Context, rec BatchTrace) error
	ListBatchTraces(ctx context.Context, limit int) ([]BatchTrace, error)
}
