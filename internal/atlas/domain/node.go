// Package domain models the hierarchical location graph: nodes, edges, their
// enumerated statuses and kinds, and the patch operations an external author
// may submit against them.
package domain

import "strings"

// ParentRootSentinel is the literal parent reference that marks a node as
// top-level. It resolves to "no parent" rather than to a node.
const ParentRootSentinel = "Universe"

// NodeStatus represents the discovery state of a map node.
type NodeStatus string

const (
	// NodeStatusUndiscovered marks a node the party has not found yet.
	NodeStatusUndiscovered NodeStatus = "undiscovered"
	// NodeStatusDiscovered marks a node the party has visited or seen.
	NodeStatusDiscovered NodeStatus = "discovered"
	// NodeStatusRumored marks a node known only through hearsay.
	NodeStatusRumored NodeStatus = "rumored"
	// NodeStatusQuestTarget marks a node an active quest points at.
	NodeStatusQuestTarget NodeStatus = "quest_target"
)

// IsValid reports whether the status is one of the canonical values.
func (s NodeStatus) IsValid() bool {
	switch s {
	case NodeStatusUndiscovered, NodeStatusDiscovered, NodeStatusRumored, NodeStatusQuestTarget:
		return true
	}
	return false
}

// NodeType is a hierarchy level. Levels are ordered from the broadest
// container to the most granular: region > settlement > exterior > interior >
// room > feature.
type NodeType string

const (
	NodeTypeRegion     NodeType = "region"
	NodeTypeSettlement NodeType = "settlement"
	NodeTypeExterior   NodeType = "exterior"
	NodeTypeInterior   NodeType = "interior"
	NodeTypeRoom       NodeType = "room"
	NodeTypeFeature    NodeType = "feature"
)

var nodeTypeDepth = map[NodeType]int{
	NodeTypeRegion:     0,
	NodeTypeSettlement: 1,
	NodeTypeExterior:   2,
	NodeTypeInterior:   3,
	NodeTypeRoom:       4,
	NodeTypeFeature:    5,
}

// IsValid reports whether the node type is one of the canonical levels.
func (t NodeType) IsValid() bool {
	_, ok := nodeTypeDepth[t]
	return ok
}

// Depth returns the hierarchy depth of the level, 0 for region through 5 for
// feature. Unknown types sort below feature.
func (t NodeType) Depth() int {
	depth, ok := nodeTypeDepth[t]
	if !ok {
		return len(nodeTypeDepth)
	}
	return depth
}

// Position is an opaque 2D coordinate carried on nodes. The engine never
// interprets it.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a location in the hierarchical map graph.
type Node struct {
	ID          string
	PlaceName   string
	Aliases     []string
	Description string
	Status      NodeStatus
	Type        NodeType
	// ParentID refers to the containing node. Empty for top-level nodes.
	ParentID string
	Position Position
}

// HasAlias reports whether the node carries the alias, compared case- and
// Unicode-fold-insensitively.
func (n *Node) HasAlias(name string) bool {
	folded := FoldName(name)
	for _, alias := range n.Aliases {
		if FoldName(alias) == folded {
			return true
		}
	}
	return false
}

// AddAlias records an alternate label, skipping duplicates and labels equal
// to the current place name.
func (n *Node) AddAlias(name string) {
	name = strings.TrimSpace(name)
	if name == "" || FoldName(name) == FoldName(n.PlaceName) || n.HasAlias(name) {
		return
	}
	n.Aliases = append(n.Aliases, name)
}
