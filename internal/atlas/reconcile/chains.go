package reconcile

import (
	"context"
	"fmt"

	"github.com/marlowe-games/cartograph/internal/atlas/correction"
	"github.com/marlowe-games/cartograph/internal/atlas/domain"
)

// refineChains asks the correction service to name and describe the
// connector chains, validating each reply and feeding problems back into
// the next attempt. Chains still unresolved after the final attempt are
// dropped with warnings; the rest of the batch stands.
func (b *batch) refineChains(ctx context.Context, reqs []correction.ChainRequest) error {
	if len(reqs) == 0 {
		return nil
	}

	pending := reqs
	for attempt := 1; attempt <= b.engine.chainAttempts && len(pending) > 0; attempt++ {
		var res correction.ChainResult
		err := correction.WithRetry(ctx, b.engine.transportAttempts, b.engine.retryDelay, func() error {
			var callErr error
			res, callErr = b.engine.corr.RefineChains(ctx, pending)
			return callErr
		})
		b.record(res.Exchange)
		if err != nil {
			return &BatchError{Code: CodeTransportFailed, Err: err}
		}

		resolved := map[string]correction.ChainResolution{}
		for _, chain := range res.Reply.Chains {
			resolved[chain.ChainID] = chain
		}

		var retry []correction.ChainRequest
		for _, req := range pending {
			chain, ok := resolved[req.ID]
			if !ok {
				req.Feedback = append(req.Feedback, fmt.Sprintf("chain %s was missing from the reply", req.ID))
				retry = append(retry, req)
				continue
			}
			problems := validateChainReply(req, chain)
			if len(problems) > 0 {
				req.Feedback = append(req.Feedback, problems...)
				retry = append(retry, req)
				continue
			}
			if err := b.applyChainReply(req, chain); err != nil {
				return err
			}
		}
		pending = retry
	}

	for _, req := range pending {
		label := req.Source.Name + " - " + req.Target.Name
		b.result.DroppedEdges = append(b.result.DroppedEdges, label)
		b.rec.DroppedEdges = append(b.rec.DroppedEdges, label)
		b.warnf("connector chain for %q dropped: no valid refinement after %d attempts", label, b.engine.chainAttempts)
	}
	return nil
}

// validateChainReply checks one resolution against its request: every
// placeholder must receive a non-empty name, and the edge type and status
// must normalize to known values.
func validateChainReply(req correction.ChainRequest, chain correction.ChainResolution) []string {
	var problems []string

	renamed := map[string]correction.NodeRename{}
	for _, rename := range chain.Renames {
		renamed[rename.Placeholder] = rename
	}
	for _, placeholder := range req.Nodes {
		rename, ok := renamed[placeholder.Name]
		if !ok {
			problems = append(problems, fmt.Sprintf("placeholder %q was not renamed", placeholder.Name))
			continue
		}
		if rename.NewName == "" {
			problems = append(problems, fmt.Sprintf("placeholder %q received an empty name", placeholder.Name))
		}
	}

	if _, ok := domain.NormalizeEdgeType(chain.Edge.Type); !ok {
		problems = append(problems, fmt.Sprintf("edge type %q is not recognized", chain.Edge.Type))
	}
	if _, ok := domain.NormalizeEdgeStatus(chain.Edge.Status); !ok {
		problems = append(problems, fmt.Sprintf("edge status %q is not recognized", chain.Edge.Status))
	}
	return problems
}

// applyChainReply materializes the two refined connector nodes under their
// junction parents and the edge between them.
func (b *batch) applyChainReply(req correction.ChainRequest, chain correction.ChainResolution) error {
	plan, ok := b.chainPlans[req.ID]
	if !ok {
		return fmt.Errorf("no plan recorded for chain %s", req.ID)
	}

	renamed := map[string]correction.NodeRename{}
	for _, rename := range chain.Renames {
		renamed[rename.Placeholder] = rename
	}

	status := domain.NodeStatusDiscovered
	source := b.work.Nodes[plan.sourceID]
	target := b.work.Nodes[plan.targetID]
	if (source != nil && source.Status == domain.NodeStatusRumored) ||
		(target != nil && target.Status == domain.NodeStatusRumored) {
		status = domain.NodeStatusRumored
	}

	parents := map[string]string{
		req.Nodes[0].Name: plan.junctionAID,
		req.Nodes[1].Name: plan.junctionBID,
	}

	connectorIDs := make([]string, 0, len(req.Nodes))
	for _, placeholder := range req.Nodes {
		rename := renamed[placeholder.Name]
		nodeID, err := b.engine.idGenerator()
		if err != nil {
			return fmt.Errorf("generate connector id: %w", err)
		}
		node := &domain.Node{
			ID:          nodeID,
			PlaceName:   rename.NewName,
			Description: rename.Description,
			Status:      status,
			Type:        domain.NodeTypeFeature,
			ParentID:    parents[placeholder.Name],
		}
		b.work.AddNode(node)
		b.result.AddedNodeIDs = append(b.result.AddedNodeIDs, nodeID)
		b.result.RenameCandidateIDs = append(b.result.RenameCandidateIDs, nodeID)
		connectorIDs = append(connectorIDs, nodeID)
	}
	b.reindex()

	edgeType, _ := domain.NormalizeEdgeType(chain.Edge.Type)
	edgeStatus, _ := domain.NormalizeEdgeStatus(chain.Edge.Status)
	edgeID, err := b.engine.idGenerator()
	if err != nil {
		return fmt.Errorf("generate connector edge id: %w", err)
	}
	b.work.AddEdge(&domain.Edge{
		ID:          edgeID,
		SourceID:    connectorIDs[0],
		TargetID:    connectorIDs[1],
		Type:        edgeType,
		Status:      edgeStatus,
		Description: chain.Edge.Description,
		TravelTime:  chain.Edge.TravelTime,
	})
	b.result.AddedEdgeIDs = append(b.result.AddedEdgeIDs, edgeID)
	return nil
}
