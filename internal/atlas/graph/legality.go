package graph

import "github.com/marlowe-games/cartograph/internal/atlas/domain"

// EdgeAllowed reports whether a direct edge between two nodes respects the
// hierarchy rules. An edge between feature-level nodes is legal when the
// features share a parent, their parents are siblings under one grandparent,
// or one feature's parent is the other's grandparent. Shortcut edges are
// exempt. Edges between non-feature nodes are never created by this engine.
func (g *Graph) EdgeAllowed(a, b *domain.Node, edgeType domain.EdgeType) bool {
	if a == nil || b == nil || a.ID == b.ID {
		return false
	}
	if edgeType == domain.EdgeTypeShortcut {
		return true
	}
	if a.Type != domain.NodeTypeFeature || b.Type != domain.NodeTypeFeature {
		return false
	}

	parentA := g.Parent(a)
	parentB := g.Parent(b)
	if parentA == nil || parentB == nil {
		return false
	}
	if parentA.ID == parentB.ID {
		return true
	}
	grandA := g.Parent(parentA)
	grandB := g.Parent(parentB)
	if grandA != nil && grandB != nil && grandA.ID == grandB.ID {
		return true
	}
	if grandB != nil && parentA.ID == grandB.ID {
		return true
	}
	if grandA != nil && parentB.ID == grandA.ID {
		return true
	}
	return false
}

// JunctionAllowed reports whether feature nodes parented at the two junction
// nodes could be legally connected. It is the EdgeAllowed rule viewed from
// the parents' side, used by the ancestor walk that plans connector chains.
func (g *Graph) JunctionAllowed(junctionA, junctionB *domain.Node) bool {
	if junctionA == nil || junctionB == nil {
		return false
	}
	if junctionA.ID == junctionB.ID {
		return true
	}
	parentA := g.Parent(junctionA)
	parentB := g.Parent(junctionB)
	if parentA != nil && parentB != nil && parentA.ID == parentB.ID {
		return true
	}
	if parentB != nil && junctionA.ID == parentB.ID {
		return true
	}
	if parentA != nil && junctionB.ID == parentA.ID {
		return true
	}
	return false
}
