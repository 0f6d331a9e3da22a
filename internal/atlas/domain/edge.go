package domain

// EdgeType is the kind of connection between two nodes.
type EdgeType string

const (
	EdgeTypePath   EdgeType = "path"
	EdgeTypeRoad   EdgeType = "road"
	EdgeTypeDoor   EdgeType = "door"
	EdgeTypeStairs EdgeType = "stairs"
	EdgeTypeTunnel EdgeType = "tunnel"
	EdgeTypeBridge EdgeType = "bridge"
	// EdgeTypeShortcut is exempt from hierarchy legality rules.
	EdgeTypeShortcut EdgeType = "shortcut"
)

// IsValid reports whether the edge type is one of the canonical kinds.
func (t EdgeType) IsValid() bool {
	switch t {
	case EdgeTypePath, EdgeTypeRoad, EdgeTypeDoor, EdgeTypeStairs, EdgeTypeTunnel, EdgeTypeBridge, EdgeTypeShortcut:
		return true
	}
	return false
}

// EdgeStatus represents the traversal state of a connection.
type EdgeStatus string

const (
	EdgeStatusOpen    EdgeStatus = "open"
	EdgeStatusClosed  EdgeStatus = "closed"
	EdgeStatusLocked  EdgeStatus = "locked"
	EdgeStatusBlocked EdgeStatus = "blocked"
	EdgeStatusHidden  EdgeStatus = "hidden"
	EdgeStatusRumored EdgeStatus = "rumored"
)

// IsValid reports whether the edge status is one of the canonical values.
func (s EdgeStatus) IsValid() bool {
	switch s {
	case EdgeStatusOpen, EdgeStatusClosed, EdgeStatusLocked, EdgeStatusBlocked, EdgeStatusHidden, EdgeStatusRumored:
		return true
	}
	return false
}

// Edge is a typed connection between two nodes. Source and target carry
// directional data but the pair is logically undirected: matching and
// deduplication treat (a, b) and (b, a) as the same connection.
type Edge struct {
	ID          string
	SourceID    string
	TargetID    string
	Type        EdgeType
	Status      EdgeStatus
	Description string
	TravelTime  string
}

// PairKey returns an order-independent key for a node pair.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

// PairKey returns the edge's unordered endpoint key.
func (e *Edge) PairKey() string {
	return PairKey(e.SourceID, e.TargetID)
}

// Touches reports whether the edge has the node as either endpoint.
func (e *Edge) Touches(nodeID string) bool {
	return e.SourceID == nodeID || e.TargetID == nodeID
}
