package domain

// Patch is one externally-authored batch of map operations. It is constructed
// from untrusted input by ParsePatch, mutated in place by normalization and
// reconciliation, consumed once, then discarded.
type Patch struct {
	NodesToAdd    []NodeAdd
	NodesToUpdate []NodeUpdate
	NodesToRemove []NodeRemove
	EdgesToAdd    []EdgeAdd
	EdgesToUpdate []EdgeUpdate
	EdgesToRemove []EdgeRemove

	// SuggestedCurrentNodeID carries the author's proposal for where the
	// party now is. It is a reference, not necessarily an id.
	SuggestedCurrentNodeID string
}

// IsEmpty reports whether the patch carries no operations at all.
func (p *Patch) IsEmpty() bool {
	return len(p.NodesToAdd) == 0 && len(p.NodesToUpdate) == 0 && len(p.NodesToRemove) == 0 &&
		len(p.EdgesToAdd) == 0 && len(p.EdgesToUpdate) == 0 && len(p.EdgesToRemove) == 0
}

// NodeAdd requests creation of a node. Status and NodeType are free-form
// until synonym normalization rewrites them to canonical values.
type NodeAdd struct {
	PlaceName   string
	Description string
	Aliases     []string
	Status      string
	NodeType    string
	// ParentRef names the intended container: a place name, id, alias,
	// batch-local name, or the root sentinel.
	ParentRef string
}

// NodeUpdate requests mutation of an existing node. Empty fields mean
// "leave unchanged"; Aliases is applied only when AliasesSet is true so an
// explicit empty list can clear aliases.
type NodeUpdate struct {
	PlaceName   string
	NewName     string
	Description string
	Aliases     []string
	AliasesSet  bool
	Status      string
	NodeType    string
	ParentRef   string
}

// NodeRemove requests removal of a node by reference.
type NodeRemove struct {
	PlaceName string
}

// EdgeAdd requests a connection between two node references.
type EdgeAdd struct {
	Source      string
	Target      string
	Type        string
	Status      string
	Description string
	TravelTime  string
}

// EdgeUpdate requests mutation of an existing connection. Empty fields mean
// "leave unchanged".
type EdgeUpdate struct {
	Source      string
	Target      string
	Type        string
	Status      string
	Description string
	TravelTime  string
}

// EdgeRemove requests removal of the connection between two references,
// optionally filtered to a single type.
type EdgeRemove struct {
	Source string
	Target string
	Type   string
}
