package reconcile

import (
	"fmt"

	"github.com/marlowe-games/cartograph/internal/atlas/domain"
)

// normalizePatch rewrites free-form status/type values across the batch to
// canonical enum values and migrates removal-flavored status updates into
// proper remove operations. The returned problem strings are residual
// values that stayed unrecognized; a non-empty list rejects the batch and
// is fed back to the author verbatim.
func normalizePatch(p *domain.Patch) []string {
	var problems []string
	problemf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	for i := range p.NodesToAdd {
		op := &p.NodesToAdd[i]
		if status, ok := domain.NormalizeNodeStatus(op.Status); ok {
			op.Status = string(status)
		} else {
			problemf("nodesToAdd[%d] %q: status %q is not a recognized node status", i, op.PlaceName, op.Status)
		}
		if nodeType, ok := domain.NormalizeNodeType(op.NodeType); ok {
			op.NodeType = string(nodeType)
		} else {
			problemf("nodesToAdd[%d] %q: nodeType %q is not a recognized hierarchy level", i, op.PlaceName, op.NodeType)
		}
	}

	// Removal-flavored status updates become remove operations.
	surviving := p.NodesToUpdate[:0]
	for i := range p.NodesToUpdate {
		op := p.NodesToUpdate[i]
		if op.Status != "" && domain.IsRemovalStatus(op.Status) {
			p.NodesToRemove = append(p.NodesToRemove, domain.NodeRemove{PlaceName: op.PlaceName})
			continue
		}
		if op.Status != "" {
			if status, ok := domain.NormalizeNodeStatus(op.Status); ok {
				op.Status = string(status)
			} else {
				problemf("nodesToUpdate[%d] %q: status %q is not a recognized node status", i, op.PlaceName, op.Status)
			}
		}
		if op.NodeType != "" {
			if nodeType, ok := domain.NormalizeNodeType(op.NodeType); ok {
				op.NodeType = string(nodeType)
			} else {
				problemf("nodesToUpdate[%d] %q: nodeType %q is not a recognized hierarchy level", i, op.PlaceName, op.NodeType)
			}
		}
		surviving = append(surviving, op)
	}
	p.NodesToUpdate = surviving

	for i := range p.EdgesToAdd {
		op := &p.EdgesToAdd[i]
		if edgeType, ok := domain.NormalizeEdgeType(op.Type); ok {
			op.Type = string(edgeType)
		} else {
			problemf("edgesToAdd[%d] %q-%q: type %q is not a recognized connection type", i, op.Source, op.Target, op.Type)
		}
		if status, ok := domain.NormalizeEdgeStatus(op.Status); ok {
			op.Status = string(status)
		} else {
			problemf("edgesToAdd[%d] %q-%q: status %q is not a recognized connection status", i, op.Source, op.Target, op.Status)
		}
	}

	for i := range p.EdgesToUpdate {
		op := &p.EdgesToUpdate[i]
		if op.Type != "" {
			if edgeType, ok := domain.NormalizeEdgeType(op.Type); ok {
				op.Type = string(edgeType)
			} else {
				problemf("edgesToUpdate[%d] %q-%q: type %q is not a recognized connection type", i, op.Source, op.Target, op.Type)
			}
		}
		if op.Status != "" {
			if status, ok := domain.NormalizeEdgeStatus(op.Status); ok {
				op.Status = string(status)
			} else {
				problemf("edgesToUpdate[%d] %q-%q: status %q is not a recognized connection status", i, op.Source, op.Target, op.Status)
			}
		}
	}

	for i := range p.EdgesToRemove {
		op := &p.EdgesToRemove[i]
		if op.Type == "" {
			continue
		}
		if edgeType, ok := domain.NormalizeEdgeType(op.Type); ok {
			op.Type = string(edgeType)
		} else {
			problemf("edgesToRemove[%d] %q-%q: type %q is not a recognized connection type", i, op.Source, op.Target, op.Type)
		}
	}

	return problems
}
