package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/marlowe-games/cartograph/internal/atlas/correction"
	"github.com/marlowe-games/cartograph/internal/atlas/domain"
)

// insertNodes materializes the batch's node additions through an iterative
// fixpoint queue. Forward references to nodes added later in the same batch
// resolve on a later pass; when a full pass makes no progress, one
// AI-assisted parent inference round runs, and nodes still unresolved after
// that are dropped and reported.
func (b *batch) insertNodes(ctx context.Context) error {
	queue := b.patch.NodesToAdd
	inferenceTried := false

	for len(queue) > 0 {
		var stalled []domain.NodeAdd
		for _, op := range queue {
			parent, ok := b.resolveParentRef(op.ParentRef)
			if !ok {
				stalled = append(stalled, op)
				continue
			}
			if err := b.materializeNode(op, parent); err != nil {
				return err
			}
		}

		if len(stalled) == len(queue) && len(stalled) > 0 {
			if inferenceTried {
				b.dropUnresolvedNodes(stalled)
				return nil
			}
			inferenceTried = true
			inferred, err := b.inferParents(ctx, stalled)
			if err != nil {
				return err
			}
			stalled = inferred
		}
		queue = stalled
	}
	return nil
}

// resolveParentRef maps a parent reference to its node. A nil node with
// ok=true means the node is top-level: the root sentinel and an absent
// reference both resolve to "no parent".
func (b *batch) resolveParentRef(ref string) (*domain.Node, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" || domain.SameName(ref, domain.ParentRootSentinel) {
		return nil, true
	}
	node := b.index.Resolve(ref)
	if node == nil {
		return nil, false
	}
	return node, true
}

func (b *batch) materializeNode(op domain.NodeAdd, parent *domain.Node) error {
	// A node cannot be a sibling-by-type of its own container: when the
	// resolved parent sits at the child's hierarchy level, re-parent one
	// level up.
	if parent != nil && parent.Type == domain.NodeType(op.NodeType) {
		parent = b.work.Parent(parent)
	}

	nodeID, err := b.engine.idGenerator()
	if err != nil {
		return fmt.Errorf("generate node id: %w", err)
	}
	node := &domain.Node{
		ID:          nodeID,
		PlaceName:   op.PlaceName,
		Description: op.Description,
		Status:      domain.NodeStatus(op.Status),
		Type:        domain.NodeType(op.NodeType),
	}
	for _, alias := range op.Aliases {
		node.AddAlias(alias)
	}
	if parent != nil {
		node.ParentID = parent.ID
	}

	b.work.AddNode(node)
	b.reindex()
	b.result.AddedNodeIDs = append(b.result.AddedNodeIDs, nodeID)
	return nil
}

// inferParents asks the correction service for the most plausible existing
// parent of each stalled node. This runs at most once per batch.
func (b *batch) inferParents(ctx context.Context, stalled []domain.NodeAdd) ([]domain.NodeAdd, error) {
	listing := b.neighborhood()
	for i := range stalled {
		op := &stalled[i]
		var res correction.ParentResult
		err := correction.WithRetry(ctx, b.engine.transportAttempts, b.engine.retryDelay, func() error {
			var callErr error
			res, callErr = b.engine.corr.InferParent(ctx, correction.ParentInferenceRequest{
				Name:         op.PlaceName,
				Description:  op.Description,
				NodeType:     op.NodeType,
				FailedRef:    op.ParentRef,
				Neighborhood: listing,
				RootSentinel: domain.ParentRootSentinel,
			})
			return callErr
		})
		b.record(res.Exchange)
		if err != nil {
			return nil, &BatchError{Code: CodeTransportFailed, Err: err}
		}
		op.ParentRef = res.ParentName
	}
	return stalled, nil
}

// dropUnresolvedNodes reports nodes whose parents never resolved, calling
// out batch-internal reference cycles by name.
func (b *batch) dropUnresolvedNodes(stalled []domain.NodeAdd) {
	pending := map[string]bool{}
	for _, op := range stalled {
		pending[domain.FoldName(op.PlaceName)] = true
	}
	for _, op := range stalled {
		reason := "parent could not be resolved"
		if pending[domain.FoldName(op.ParentRef)] {
			reason = "cyclic parent reference within the batch"
		}
		b.result.DroppedNodes = append(b.result.DroppedNodes, op.PlaceName)
		b.rec.DroppedNodes = append(b.rec.DroppedNodes, op.PlaceName)
		b.warnf("node %q dropped: %s (parent ref %q)", op.PlaceName, reason, op.ParentRef)
	}
}
