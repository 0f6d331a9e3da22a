package graph

import (
	"sort"

	"github.com/marlowe-games/cartograph/internal/atlas/domain"
)

// NodeContext pairs a node with its hop distance from a reference location.
type NodeContext struct {
	Node *domain.Node
	Hops int
}

// unreachableHops orders nodes with no path after every reachable node.
const unreachableHops = 1 << 20

// Unreachable reports whether no path connects the node to the walk origin.
func (c NodeContext) Unreachable() bool {
	return c.Hops >= unreachableHops
}

// HopDistances runs a breadth-first walk from the given node over edges and
// parent/child containment links, returning hop counts per node id. Nodes
// with no path are absent from the result.
func (g *Graph) HopDistances(fromID string) map[string]int {
	distances := map[string]int{}
	if _, ok := g.Nodes[fromID]; !ok {
		return distances
	}

	adjacency := map[string][]string{}
	link := func(a, b string) {
		adjacency[a] = append(adjacency[a], b)
		adjacency[b] = append(adjacency[b], a)
	}
	for _, node := range g.Nodes {
		if node.ParentID != "" {
			if _, ok := g.Nodes[node.ParentID]; ok {
				link(node.ID, node.ParentID)
			}
		}
	}
	for _, edge := range g.Edges {
		link(edge.SourceID, edge.TargetID)
	}

	distances[fromID] = 0
	queue := []string{fromID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[current] {
			if _, seen := distances[next]; seen {
				continue
			}
			distances[next] = distances[current] + 1
			queue = append(queue, next)
		}
	}
	return distances
}

// Neighborhood returns the graph's nodes ordered by hop distance from the
// given location, nearest first, name-sorted within a distance. Unreachable
// nodes follow the reachable ones so correction prompts still see the whole
// map. A limit of 0 means no limit.
func (g *Graph) Neighborhood(fromID string, limit int) []NodeContext {
	distances := g.HopDistances(fromID)
	listing := make([]NodeContext, 0, len(g.Nodes))
	for _, node := range g.Nodes {
		hops, ok := distances[node.ID]
		if !ok {
			hops = unreachableHops
		}
		listing = append(listing, NodeContext{Node: node, Hops: hops})
	}
	sort.Slice(listing, func(i, j int) bool {
		if listing[i].Hops != listing[j].Hops {
			return listing[i].Hops < listing[j].Hops
		}
		return listing[i].Node.PlaceName < listing[j].Node.PlaceName
	})
	if limit > 0 && len(listing) > limit {
		listing = listing[:limit]
	}
	return listing
}
