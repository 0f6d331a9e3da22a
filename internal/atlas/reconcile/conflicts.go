package reconcile

import "github.com/marlowe-games/cartograph/internal/atlas/domain"

// reconcileConflicts cancels contradictory operations inside one batch:
// rename-protected removals are discarded, matching add/remove pairs
// annihilate, and duplicate edge adds collapse to one.
func reconcileConflicts(p *domain.Patch) {
	protectRenames(p)
	annihilateNodes(p)
	dedupEdgeAdds(p)
	annihilateEdges(p)
}

// protectRenames discards remove operations referencing either side of a
// rename. A rename must not be mistaken for removal.
func protectRenames(p *domain.Patch) {
	protected := map[string]bool{}
	for _, op := range p.NodesToUpdate {
		if op.NewName == "" {
			continue
		}
		protected[domain.FoldName(op.PlaceName)] = true
		protected[domain.FoldName(op.NewName)] = true
	}
	if len(protected) == 0 {
		return
	}
	surviving := p.NodesToRemove[:0]
	for _, op := range p.NodesToRemove {
		if protected[domain.FoldName(op.PlaceName)] {
			continue
		}
		surviving = append(surviving, op)
	}
	p.NodesToRemove = surviving
}

// annihilateNodes drops add/remove pairs for the same name: the net effect
// is a no-op, not add-then-remove.
func annihilateNodes(p *domain.Patch) {
	added := map[string]bool{}
	for _, op := range p.NodesToAdd {
		added[domain.FoldName(op.PlaceName)] = true
	}
	annihilated := map[string]bool{}
	for _, op := range p.NodesToRemove {
		if folded := domain.FoldName(op.PlaceName); added[folded] {
			annihilated[folded] = true
		}
	}
	if len(annihilated) == 0 {
		return
	}

	adds := p.NodesToAdd[:0]
	for _, op := range p.NodesToAdd {
		if annihilated[domain.FoldName(op.PlaceName)] {
			continue
		}
		adds = append(adds, op)
	}
	p.NodesToAdd = adds

	removes := p.NodesToRemove[:0]
	for _, op := range p.NodesToRemove {
		if annihilated[domain.FoldName(op.PlaceName)] {
			continue
		}
		removes = append(removes, op)
	}
	p.NodesToRemove = removes
}

// edgePairKey builds an order-independent reference key for edge conflict
// matching before endpoints are resolved to ids.
func edgePairKey(source, target string) string {
	return domain.PairKey(domain.FoldName(source), domain.FoldName(target))
}

// dedupEdgeAdds keeps the first add per unordered endpoint pair and type.
func dedupEdgeAdds(p *domain.Patch) {
	seen := map[string]bool{}
	surviving := p.EdgesToAdd[:0]
	for _, op := range p.EdgesToAdd {
		key := edgePairKey(op.Source, op.Target) + "|" + op.Type
		if seen[key] {
			continue
		}
		seen[key] = true
		surviving = append(surviving, op)
	}
	p.EdgesToAdd = surviving
}

// annihilateEdges drops add/remove pairs matching on unordered endpoints
// and, when the removal names one, edge type.
func annihilateEdges(p *domain.Patch) {
	matches := func(add domain.EdgeAdd, remove domain.EdgeRemove) bool {
		if edgePairKey(add.Source, add.Target) != edgePairKey(remove.Source, remove.Target) {
			return false
		}
		return remove.Type == "" || remove.Type == add.Type
	}

	droppedAdd := make([]bool, len(p.EdgesToAdd))
	droppedRemove := make([]bool, len(p.EdgesToRemove))
	for ri, remove := range p.EdgesToRemove {
		for ai, add := range p.EdgesToAdd {
			if droppedAdd[ai] || !matches(add, remove) {
				continue
			}
			droppedAdd[ai] = true
			droppedRemove[ri] = true
			break
		}
	}

	adds := p.EdgesToAdd[:0]
	for i, op := range p.EdgesToAdd {
		if !droppedAdd[i] {
			adds = append(adds, op)
		}
	}
	p.EdgesToAdd = adds

	removes := p.EdgesToRemove[:0]
	for i, op := range p.EdgesToRemove {
		if !droppedRemove[i] {
			removes = append(removes, op)
		}
	}
	p.EdgesToRemove = removes
}
