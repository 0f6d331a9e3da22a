package reconcile

import (
	"context"
	"fmt"

	"github.com/marlowe-games/cartograph/internal/atlas/correction"
	"github.com/marlowe-games/cartograph/internal/atlas/domain"
)

// processEdges materializes legal edge additions, reroutes illegal ones into
// connector chain requests, and applies edge updates and removals.
func (b *batch) processEdges(ctx context.Context) ([]correction.ChainRequest, error) {
	var chains []correction.ChainRequest
	for _, op := range b.patch.EdgesToAdd {
		source, err := b.resolveEndpoint(ctx, op.Source)
		if err != nil {
			return nil, err
		}
		target, err := b.resolveEndpoint(ctx, op.Target)
		if err != nil {
			return nil, err
		}
		if source == nil || target == nil {
			b.dropEdge(op.Source, op.Target, "endpoint could not be resolved")
			continue
		}
		if source.ID == target.ID {
			b.dropEdge(op.Source, op.Target, "both references resolve to the same node")
			continue
		}

		edgeType := domain.EdgeType(op.Type)
		if b.work.FindEdge(source.ID, target.ID, edgeType) != nil {
			// Already connected; nothing to request twice.
			continue
		}

		if b.work.EdgeAllowed(source, target, edgeType) {
			if err := b.materializeEdge(source, target, op); err != nil {
				return nil, err
			}
			continue
		}

		req, ok := b.planChain(source, target, op)
		if !ok {
			b.dropEdge(op.Source, op.Target, fmt.Sprintf("no legal junction within %d ancestor steps", b.engine.walkLimit))
			continue
		}
		chains = append(chains, req)
	}

	b.applyEdgeUpdates()
	b.applyEdgeRemovals()
	return chains, nil
}

// resolveEndpoint resolves an edge endpoint reference, falling back to one
// AI-assisted resolution round for references nothing in the index matches.
// A nil node with nil error means the reference is unresolvable.
func (b *batch) resolveEndpoint(ctx context.Context, ref string) (*domain.Node, error) {
	if node := b.index.Resolve(ref); node != nil {
		return node, nil
	}
	var res correction.ResolveResult
	err := correction.WithRetry(ctx, b.engine.transportAttempts, b.engine.retryDelay, func() error {
		var callErr error
		res, callErr = b.engine.corr.ResolveNodeRef(ctx, correction.NodeResolveRequest{
			Reference:    ref,
			Neighborhood: b.neighborhood(),
		})
		return callErr
	})
	b.record(res.Exchange)
	if err != nil {
		return nil, &BatchError{Code: CodeTransportFailed, Err: err}
	}
	return b.index.Resolve(res.NodeName), nil
}

func (b *batch) dropEdge(source, target, reason string) {
	label := source + " - " + target
	b.result.DroppedEdges = append(b.result.DroppedEdges, label)
	b.rec.DroppedEdges = append(b.rec.DroppedEdges, label)
	b.warnf("edge %q dropped: %s", label, reason)
}

// defaultEdgeStatus is rumored when either endpoint is rumored, else open.
func defaultEdgeStatus(a, b *domain.Node) domain.EdgeStatus {
	if a.Status == domain.NodeStatusRumored || b.Status == domain.NodeStatusRumored {
		return domain.EdgeStatusRumored
	}
	return domain.EdgeStatusOpen
}

func (b *batch) materializeEdge(source, target *domain.Node, op domain.EdgeAdd) error {
	status := domain.EdgeStatus(op.Status)
	if op.Status == "" {
		status = defaultEdgeStatus(source, target)
	}
	edgeID, err := b.engine.idGenerator()
	if err != nil {
		return fmt.Errorf("generate edge id: %w", err)
	}
	b.work.AddEdge(&domain.Edge{
		ID:          edgeID,
		SourceID:    source.ID,
		TargetID:    target.ID,
		Type:        domain.EdgeType(op.Type),
		Status:      status,
		Description: op.Description,
		TravelTime:  op.TravelTime,
	})
	b.result.AddedEdgeIDs = append(b.result.AddedEdgeIDs, edgeID)
	return nil
}

// planChain walks both endpoints' ancestor chains, advancing whichever side
// is currently deeper, until it finds a pair that could legally parent
// connector features or exhausts the step bound. The recorded pair sequence
// becomes a connector chain request.
func (b *batch) planChain(source, target *domain.Node, op domain.EdgeAdd) (correction.ChainRequest, bool) {
	a, c := source, target
	var pairs []correction.JunctionPair
	var junctionA, junctionB *domain.Node

	for step := 0; step < b.engine.walkLimit; step++ {
		if a.Type.Depth() >= c.Type.Depth() {
			parent := b.work.Parent(a)
			if parent == nil {
				break
			}
			a = parent
		} else {
			parent := b.work.Parent(c)
			if parent == nil {
				break
			}
			c = parent
		}
		pairs = append(pairs, correction.JunctionPair{A: a.PlaceName, B: c.PlaceName})
		// Connectors are features, so both junctions must be containers.
		if a.Type != domain.NodeTypeFeature && c.Type != domain.NodeTypeFeature && b.work.JunctionAllowed(a, c) {
			junctionA, junctionB = a, c
			break
		}
	}
	if junctionA == nil {
		return correction.ChainRequest{}, false
	}

	b.chainSeq++
	chainID := fmt.Sprintf("chain-%d", b.chainSeq)
	placeholderA := fmt.Sprintf("Unnamed Connector %d-A", b.chainSeq)
	placeholderB := fmt.Sprintf("Unnamed Connector %d-B", b.chainSeq)

	b.chainPlans[chainID] = chainPlan{
		junctionAID: junctionA.ID,
		junctionBID: junctionB.ID,
		sourceID:    source.ID,
		targetID:    target.ID,
	}
	return correction.ChainRequest{
		ID:        chainID,
		Source:    correction.ChainEndpoint{Name: source.PlaceName, Description: source.Description},
		Target:    correction.ChainEndpoint{Name: target.PlaceName, Description: target.Description},
		Junctions: pairs,
		Nodes: []correction.Placeholder{
			{Name: placeholderA, ParentName: junctionA.PlaceName},
			{Name: placeholderB, ParentName: junctionB.PlaceName},
		},
		Edge: correction.EdgeIntent{
			Type:        op.Type,
			Status:      op.Status,
			Description: op.Description,
			TravelTime:  op.TravelTime,
		},
	}, true
}

// applyEdgeUpdates mutates existing edges, re-checking legality against the
// possibly new type. Illegal updates are rejected with a warning rather
// than silently applied.
func (b *batch) applyEdgeUpdates() {
	for _, op := range b.patch.EdgesToUpdate {
		source := b.index.Resolve(op.Source)
		target := b.index.Resolve(op.Target)
		if source == nil || target == nil {
			b.warnf("edge update %q-%q dropped: endpoint could not be resolved", op.Source, op.Target)
			continue
		}
		edge := b.updateTarget(source.ID, target.ID, op)
		if edge == nil {
			continue
		}

		effectiveType := edge.Type
		if op.Type != "" {
			effectiveType = domain.EdgeType(op.Type)
		}
		if !b.work.EdgeAllowed(source, target, effectiveType) {
			b.warnf("edge update %q-%q rejected: a %s connection would violate the hierarchy", op.Source, op.Target, effectiveType)
			continue
		}

		edge.Type = effectiveType
		if op.Status != "" {
			edge.Status = domain.EdgeStatus(op.Status)
		}
		if op.Description != "" {
			edge.Description = op.Description
		}
		if op.TravelTime != "" {
			edge.TravelTime = op.TravelTime
		}
	}
}

// updateTarget picks the edge an update applies to. A typed update prefers
// the edge already carrying that type; the any-type fallback only fires when
// exactly one edge joins the pair, since picking among several at random
// would make the outcome depend on map iteration order.
func (b *batch) updateTarget(sourceID, targetID string, op domain.EdgeUpdate) *domain.Edge {
	if op.Type != "" {
		if edge := b.work.FindEdge(sourceID, targetID, domain.EdgeType(op.Type)); edge != nil {
			return edge
		}
	}
	matched := b.work.EdgesBetween(sourceID, targetID, "")
	switch len(matched) {
	case 0:
		b.warnf("edge update %q-%q dropped: no such connection", op.Source, op.Target)
		return nil
	case 1:
		return matched[0]
	default:
		if op.Type == "" {
			b.warnf("edge update %q-%q dropped: several connections join the pair, a type is needed to pick one", op.Source, op.Target)
		} else {
			b.warnf("edge update %q-%q dropped: several connections join the pair, none of type %q", op.Source, op.Target, op.Type)
		}
		return nil
	}
}

// applyEdgeRemovals deletes edges matching the unordered endpoint pair and
// optional type filter.
func (b *batch) applyEdgeRemovals() {
	for _, op := range b.patch.EdgesToRemove {
		source := b.index.Resolve(op.Source)
		target := b.index.Resolve(op.Target)
		if source == nil || target == nil {
			b.warnf("edge removal %q-%q dropped: endpoint could not be resolved", op.Source, op.Target)
			continue
		}
		matched := b.work.EdgesBetween(source.ID, target.ID, domain.EdgeType(op.Type))
		if len(matched) == 0 {
			b.warnf("edge removal %q-%q dropped: no matching connection", op.Source, op.Target)
			continue
		}
		for _, edge := range matched {
			delete(b.work.Edges, edge.ID)
		}
	}
}
