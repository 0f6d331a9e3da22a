// Package trace records batch observability events.
package trace

import (
	"context"
	"time"

	"github.com/marlowe-games/cartograph/internal/atlas/storage"
)

// Batch outcomes.
const (
	OutcomeApplied  = "APPLIED"
	OutcomeRejected = "REJECTED"
	OutcomeAborted  = "ABORTED"
)

// Emitter records batch traces. A nil emitter or nil store is a no-op so
// callers never need to guard trace plumbing.
type Emitter struct {
	store storage.TraceStore
	clock func() time.Time
}

// NewEmitter creates an emitter over the given store.
func NewEmitter(store storage.TraceStore) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit persists a batch trace, stamping FinishedAt when unset.
func (e *Emitter) Emit(ctx context.Context, rec storage.BatchTrace) error {
	if e == nil || e.store == nil {
		return nil
	}
	if rec.FinishedAt.IsZero() {
		if e.clock == nil {
			rec.FinishedAt = time.Now().UTC()
		} else {
			rec.FinishedAt = e.clock().UTC()
		}
	}
	return e.store.AppendBatchTrace(ctx, rec)
}
