// Package reconcile applies externally-authored map patches to the location
// graph while enforcing its structural invariants.
//
// A batch runs through a fixed pipeline: structural validation, synonym
// normalization, conflict reconciliation, hierarchical node insertion, node
// updates and removals, edge hierarchy enforcement, and connector chain
// refinement. The engine mutates only a deep copy of the graph and returns
// it solely on success, so an aborted batch never leaves partial mutations
// visible to the caller.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/marlowe-games/cartograph/internal/atlas/correction"
	"github.com/marlowe-games/cartograph/internal/atlas/domain"
	"github.com/marlowe-games/cartograph/internal/atlas/graph"
	"github.com/marlowe-games/cartograph/internal/atlas/storage"
	"github.com/marlowe-games/cartograph/internal/atlas/trace"
	"github.com/marlowe-games/cartograph/internal/platform/id"
)

const (
	// defaultChainRefineAttempts bounds chain refinement rounds per batch.
	defaultChainRefineAttempts = 3
	// defaultTransportAttempts bounds each individual correction call.
	defaultTransportAttempts = 2
	// defaultRetryDelay is a fixed courtesy pause before retrying the
	// rate-limited correction provider.
	defaultRetryDelay = 2 * time.Second
	// defaultAncestorWalkLimit bounds the junction search for illegal edges.
	defaultAncestorWalkLimit = 10
	// neighborhoodLimit caps the location listing embedded in prompts.
	neighborhoodLimit = 30
)

// Engine reconciles patches against graph snapshots. One engine serves many
// batches; it holds no graph state of its own.
type Engine struct {
	corr              correction.Service
	emitter           *trace.Emitter
	clock             func() time.Time
	idGenerator       func() (string, error)
	chainAttempts     int
	transportAttempts int
	retryDelay        time.Duration
	walkLimit         int
	tracer            oteltrace.Tracer
}

// Option customizes an Engine.
type Option func(*Engine)

// WithTraceEmitter routes batch debug records to the emitter.
func WithTraceEmitter(emitter *trace.Emitter) Option {
	return func(e *Engine) { e.emitter = emitter }
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithIDGenerator overrides the id source.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(e *Engine) { e.idGenerator = gen }
}

// WithRetryDelay overrides the courtesy pause between transport retries.
func WithRetryDelay(delay time.Duration) Option {
	return func(e *Engine) { e.retryDelay = delay }
}

// New creates an Engine with default dependencies.
func New(corr correction.Service, opts ...Option) *Engine {
	e := &Engine{
		corr:              corr,
		clock:             time.Now,
		idGenerator:       id.NewID,
		chainAttempts:     defaultChainRefineAttempts,
		transportAttempts: defaultTransportAttempts,
		retryDelay:        defaultRetryDelay,
		walkLimit:         defaultAncestorWalkLimit,
		tracer:            otel.Tracer("cartograph/atlas/reconcile"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result reports one successfully applied batch.
type Result struct {
	// Graph is the new snapshot. The input graph is never mutated.
	Graph *graph.Graph

	AddedNodeIDs []string
	AddedEdgeIDs []string
	// RenameCandidateIDs are synthesized connector nodes eligible for a
	// later cosmetic renaming pass.
	RenameCandidateIDs []string
	DroppedNodes       []string
	DroppedEdges       []string
	Warnings           []string

	// SuggestedCurrentNodeID is the author's location proposal resolved to
	// a canonical node id, or empty when absent or unresolvable.
	SuggestedCurrentNodeID string

	Trace storage.BatchTrace
}

// ApplyPatch validates and applies one raw patch payload against the graph,
// returning a new graph snapshot. On error the input graph is untouched and
// no result is returned; *BatchError classifies whether a retry with
// feedback can help.
func (e *Engine) ApplyPatch(ctx context.Context, g *graph.Graph, raw []byte, currentNodeID string) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "reconcile.ApplyPatch")
	defer span.End()

	batchID, err := e.idGenerator()
	if err != nil {
		return nil, fmt.Errorf("generate batch id: %w", err)
	}

	b := &batch{
		engine:     e,
		currentRef: currentNodeID,
		result:     &Result{},
		rec: storage.BatchTrace{
			ID:        batchID,
			StartedAt: e.clock().UTC(),
		},
		chainPlans: map[string]chainPlan{},
	}

	result, err := b.run(ctx, g, raw)
	if err != nil {
		b.rec.Outcome = trace.OutcomeRejected
		if be, ok := err.(*BatchError); ok {
			b.rec.ValidationErrors = append(b.rec.ValidationErrors, be.Problems...)
			if be.Code == CodeTransportFailed {
				b.rec.Outcome = trace.OutcomeAborted
			}
		}
		span.RecordError(err)
		_ = e.emitter.Emit(ctx, b.rec)
		return nil, err
	}

	b.rec.Outcome = trace.OutcomeApplied
	result.Trace = b.rec
	span.SetAttributes(
		attribute.Int("atlas.nodes_added", len(result.AddedNodeIDs)),
		attribute.Int("atlas.edges_added", len(result.AddedEdgeIDs)),
		attribute.Int("atlas.nodes_dropped", len(result.DroppedNodes)),
		attribute.Int("atlas.edges_dropped", len(result.DroppedEdges)),
	)
	_ = e.emitter.Emit(ctx, result.Trace)
	return result, nil
}

// batch is the working state of one patch application.
type batch struct {
	engine     *Engine
	work       *graph.Graph
	index      *graph.Index
	patch      domain.Patch
	currentRef string
	result     *Result
	rec        storage.BatchTrace
	chainSeq   int
	chainPlans map[string]chainPlan
}

// chainPlan holds the resolved junction context for one connector chain,
// keyed by chain id so the refined reply can be applied later.
type chainPlan struct {
	junctionAID string
	junctionBID string
	sourceID    string
	targetID    string
}

func (b *batch) run(ctx context.Context, g *graph.Graph, raw []byte) (*Result, error) {
	patch, problems := domain.ParsePatch(raw)
	if len(problems) > 0 {
		return nil, &BatchError{Code: CodeSchemaInvalid, Problems: problems}
	}
	b.patch = patch

	if problems := normalizePatch(&b.patch); len(problems) > 0 {
		return nil, &BatchError{Code: CodeValueInvalid, Problems: problems}
	}

	reconcileConflicts(&b.patch)

	b.work = g.Clone()
	b.index = graph.NewIndex(b.work)
	b.result.Graph = b.work

	if err := b.insertNodes(ctx); err != nil {
		return nil, err
	}
	// Updates and removals land before edge processing so edge resolution
	// sees post-update names.
	b.applyNodeUpdates()
	b.applyNodeRemovals()

	chains, err := b.processEdges(ctx)
	if err != nil {
		return nil, err
	}
	if len(chains) > 0 {
		if err := b.refineChains(ctx, chains); err != nil {
			return nil, err
		}
	}

	b.resolveSuggestedCurrent()
	return b.result, nil
}

func (b *batch) reindex() {
	b.index.Rebuild(b.work)
}

func (b *batch) warnf(format string, args ...any) {
	warning := fmt.Sprintf(format, args...)
	b.result.Warnings = append(b.result.Warnings, warning)
	b.rec.Warnings = append(b.rec.Warnings, warning)
}

func (b *batch) record(ex correction.Exchange) {
	b.rec.Exchanges = append(b.rec.Exchanges, storage.PromptExchange{
		Kind:     ex.Kind,
		Prompt:   ex.Prompt,
		Response: ex.Response,
		Err:      ex.Err,
	})
}

// neighborhood builds the hop-distance-ordered location listing used as
// context for correction prompts.
func (b *batch) neighborhood() []correction.NodeSummary {
	from := ""
	if node := b.index.Resolve(b.currentRef); node != nil {
		from = node.ID
	}
	listing := b.work.Neighborhood(from, neighborhoodLimit)
	summaries := make([]correction.NodeSummary, 0, len(listing))
	for _, entry := range listing {
		summary := correction.NodeSummary{
			Name:     entry.Node.PlaceName,
			NodeType: string(entry.Node.Type),
			Hops:     entry.Hops,
		}
		if entry.Unreachable() {
			summary.Hops = 0
			summary.Unreachable = true
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func (b *batch) resolveSuggestedCurrent() {
	ref := b.patch.SuggestedCurrentNodeID
	if ref == "" {
		return
	}
	node := b.index.Resolve(ref)
	if node == nil {
		b.warnf("suggested current location %q does not match any node", ref)
		return
	}
	b.result.SuggestedCurrentNodeID = node.ID
}
