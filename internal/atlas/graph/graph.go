// Package graph holds the in-memory location graph and its lookup indices.
//
// A Graph is a plain value owned by whoever holds it; the reconciliation
// engine deep-copies the graph at the start of a batch and mutates only the
// copy, so prior snapshots stay safe for concurrent reads.
package graph

import "github.com/marlowe-games/cartograph/internal/atlas/domain"

// Graph is the hierarchical location graph: nodes keyed by id and edges
// keyed by id.
type Graph struct {
	Nodes map[string]*domain.Node
	Edges map[string]*domain.Edge
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		Nodes: make(map[string]*domain.Node),
		Edges: make(map[string]*domain.Edge),
	}
}

// Clone returns a deep copy. Mutating the clone never affects the original.
func (g *Graph) Clone() *Graph {
	clone := &Graph{
		Nodes: make(map[string]*domain.Node, len(g.Nodes)),
		Edges: make(map[string]*domain.Edge, len(g.Edges)),
	}
	for id, node := range g.Nodes {
		copied := *node
		copied.Aliases = append([]string(nil), node.Aliases...)
		clone.Nodes[id] = &copied
	}
	for id, edge := range g.Edges {
		copied := *edge
		clone.Edges[id] = &copied
	}
	return clone
}

// AddNode inserts a node.
func (g *Graph) AddNode(node *domain.Node) {
	g.Nodes[node.ID] = node
}

// AddEdge inserts an edge.
func (g *Graph) AddEdge(edge *domain.Edge) {
	g.Edges[edge.ID] = edge
}

// RemoveNode deletes a node and cascades to every edge touching it.
func (g *Graph) RemoveNode(nodeID string) {
	delete(g.Nodes, nodeID)
	for id, edge := range g.Edges {
		if edge.Touches(nodeID) {
			delete(g.Edges, id)
		}
	}
}

// FindEdge returns an edge between the unordered pair with the given type,
// or any type when edgeType is empty.
func (g *Graph) FindEdge(aID, bID string, edgeType domain.EdgeType) *domain.Edge {
	key := domain.PairKey(aID, bID)
	for _, edge := range g.Edges {
		if edge.PairKey() != key {
			continue
		}
		if edgeType == "" || edge.Type == edgeType {
			return edge
		}
	}
	return nil
}

// EdgesBetween returns every edge between the unordered pair, optionally
// filtered by type.
func (g *Graph) EdgesBetween(aID, bID string, edgeType domain.EdgeType) []*domain.Edge {
	key := domain.PairKey(aID, bID)
	var matched []*domain.Edge
	for _, edge := range g.Edges {
		if edge.PairKey() != key {
			continue
		}
		if edgeType == "" || edge.Type == edgeType {
			matched = append(matched, edge)
		}
	}
	return matched
}

// Parent returns the containing node, or nil for top-level nodes and
// dangling parent references.
func (g *Graph) Parent(node *domain.Node) *domain.Node {
	if node == nil || node.ParentID == "" {
		return nil
	}
	return g.Nodes[node.ParentID]
}

// Ancestors returns the containment chain from the node's parent up to a
// rootless node. The walk is cycle-guarded so a corrupt parent chain cannot
// loop forever.
func (g *Graph) Ancestors(node *domain.Node) []*domain.Node {
	var chain []*domain.Node
	seen := map[string]bool{}
	if node != nil {
		seen[node.ID] = true
	}
	for current := g.Parent(node); current != nil && !seen[current.ID]; current = g.Parent(current) {
		seen[current.ID] = true
		chain = append(chain, current)
	}
	return chain
}
