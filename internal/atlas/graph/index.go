package graph

import "github.com/marlowe-games/cartograph/internal/atlas/domain"

// Index is the lookup structure for resolving node references. It is owned
// by the batch-processing call that built it and must be rebuilt after every
// structural mutation (add, rename, removal) so later steps in the same
// batch see a consistent view.
type Index struct {
	byID         map[string]*domain.Node
	byExactName  map[string]*domain.Node
	byFoldedName map[string]*domain.Node
	byAlias      map[string]*domain.Node
}

// NewIndex builds an index over the graph's current nodes.
func NewIndex(g *Graph) *Index {
	ix := &Index{}
	ix.Rebuild(g)
	return ix
}

// Rebuild repopulates all lookup maps from the graph.
func (ix *Index) Rebuild(g *Graph) {
	ix.byID = make(map[string]*domain.Node, len(g.Nodes))
	ix.byExactName = make(map[string]*domain.Node, len(g.Nodes))
	ix.byFoldedName = make(map[string]*domain.Node, len(g.Nodes))
	ix.byAlias = make(map[string]*domain.Node)
	for _, node := range g.Nodes {
		ix.byID[node.ID] = node
		ix.byExactName[node.PlaceName] = node
		ix.byFoldedName[domain.FoldName(node.PlaceName)] = node
		for _, alias := range node.Aliases {
			ix.byAlias[domain.FoldName(alias)] = node
		}
	}
}

// Resolve maps a reference (id, place name, or alias) to a canonical node.
// Lookups run in precedence order: exact id, exact current name, folded
// name, folded alias. Nodes created earlier in the same batch resolve like
// any other because the index is rebuilt as they materialize, and renames
// keep the old name as an alias.
func (ix *Index) Resolve(ref string) *domain.Node {
	if ref == "" {
		return nil
	}
	if node, ok := ix.byID[ref]; ok {
		return node
	}
	if node, ok := ix.byExactName[ref]; ok {
		return node
	}
	folded := domain.FoldName(ref)
	if node, ok := ix.byFoldedName[folded]; ok {
		return node
	}
	if node, ok := ix.byAlias[folded]; ok {
		return node
	}
	return nil
}
