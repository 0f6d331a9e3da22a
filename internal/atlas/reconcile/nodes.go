package reconcile

import "github.com/marlowe-games/cartograph/internal/atlas/domain"

// applyNodeUpdates mutates existing nodes in place. Unresolvable references
// drop the single update with a warning; the rest of the batch proceeds.
func (b *batch) applyNodeUpdates() {
	for _, op := range b.patch.NodesToUpdate {
		node := b.index.Resolve(op.PlaceName)
		if node == nil {
			b.warnf("node update for %q dropped: no matching node", op.PlaceName)
			continue
		}

		if op.Description != "" {
			node.Description = op.Description
		}
		if op.Status != "" {
			node.Status = domain.NodeStatus(op.Status)
		}
		if op.NodeType != "" {
			node.Type = domain.NodeType(op.NodeType)
		}
		if op.AliasesSet {
			node.Aliases = nil
			for _, alias := range op.Aliases {
				node.AddAlias(alias)
			}
		}
		if op.ParentRef != "" {
			b.reparentNode(node, op.ParentRef)
		}
		if op.NewName != "" && !domain.SameName(op.NewName, node.PlaceName) {
			// The old name stays behind as an alias so later references
			// in this batch still resolve. Rename first: AddAlias skips
			// labels folding equal to the current name.
			old := node.PlaceName
			node.PlaceName = op.NewName
			node.AddAlias(old)
		}
		b.reindex()
	}
}

func (b *batch) reparentNode(node *domain.Node, ref string) {
	parent, ok := b.resolveParentRef(ref)
	if !ok {
		b.warnf("node %q keeps its parent: reference %q does not resolve", node.PlaceName, ref)
		return
	}
	if parent == nil {
		node.ParentID = ""
		return
	}
	if parent.ID == node.ID {
		b.warnf("node %q keeps its parent: cannot contain itself", node.PlaceName)
		return
	}
	// Guard the ancestor chain against cycles introduced by re-parenting.
	for _, ancestor := range append([]*domain.Node{parent}, b.work.Ancestors(parent)...) {
		if ancestor.ID == node.ID {
			b.warnf("node %q keeps its parent: %q is one of its descendants", node.PlaceName, ref)
			return
		}
	}
	node.ParentID = parent.ID
}

// applyNodeRemovals deletes nodes, cascading to every touching edge.
func (b *batch) applyNodeRemovals() {
	for _, op := range b.patch.NodesToRemove {
		node := b.index.Resolve(op.PlaceName)
		if node == nil {
			b.warnf("node removal for %q dropped: no matching node", op.PlaceName)
			continue
		}
		b.work.RemoveNode(node.ID)
		b.reindex()
	}
}
