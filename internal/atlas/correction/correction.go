// Package correction defines the AI correction-service contracts the
// reconciliation engine consumes, plus an OpenAI-backed implementation.
//
// Three calls exist: inferring a plausible parent for a node whose parent
// reference cannot be resolved, resolving a loose reference to an existing
// node for edge processing, and refining connector chains with thematic
// names and descriptions. Each is a single suspension point; retry policy
// lives with the caller.
package correction

import "context"

// NodeSummary is one line of a hop-distance-ordered neighborhood listing.
// Hops is meaningless when Unreachable is set.
type NodeSummary struct {
	Name        string
	NodeType    string
	Hops        int
	Unreachable bool
}

// ParentInferenceRequest asks for the most plausible existing parent of a
// node, or the root sentinel when the node should be top-level.
type ParentInferenceRequest struct {
	Name         string
	Description  string
	NodeType     string
	FailedRef    string
	Neighborhood []NodeSummary
	RootSentinel string
}

// NodeResolveRequest asks for the best-matching existing node name for an
// unresolved edge endpoint reference.
type NodeResolveRequest struct {
	Reference    string
	Neighborhood []NodeSummary
}

// ChainEndpoint describes one real endpoint of an illegal edge request.
type ChainEndpoint struct {
	Name        string
	Description string
}

// JunctionPair is one step of the ancestor walk recorded while searching
// for a legal pair.
type JunctionPair struct {
	A string
	B string
}

// Placeholder is a synthesized connector node awaiting a thematic name.
type Placeholder struct {
	Name       string
	ParentName string
}

// EdgeIntent carries the edge data requested for a connector chain.
type EdgeIntent struct {
	Type        string
	Status      string
	Description string
	TravelTime  string
}

// ChainRequest describes one connector chain to refine: the original
// endpoints, the ancestor pairs walked to find a legal junction, the
// placeholder connector nodes, and the intended edge data. Feedback carries
// validation errors from a prior attempt so the retry is self-correcting.
type ChainRequest struct {
	ID        string
	Source    ChainEndpoint
	Target    ChainEndpoint
	Junctions []JunctionPair
	Nodes     []Placeholder
	Edge      EdgeIntent
	Feedback  []string
}

// NodeRename is the refined identity for one placeholder connector node.
type NodeRename struct {
	Placeholder string `json:"placeholder"`
	NewName     string `json:"newName"`
	Description string `json:"description"`
}

// ChainResolution is the refined content for one requested chain.
type ChainResolution struct {
	ChainID string       `json:"chainId"`
	Renames []NodeRename `json:"nodes"`
	Edge    struct {
		Type        string `json:"type"`
		Status      string `json:"status"`
		Description string `json:"description"`
		TravelTime  string `json:"travelTime"`
	} `json:"edge"`
}

// ChainReply is the correction service's answer to a chain refinement call.
type ChainReply struct {
	Chains []ChainResolution `json:"chains"`
}

// Exchange captures one prompt/response round for observability. It is
// populated even when the call errors so batch traces keep failed rounds.
type Exchange struct {
	Kind     string
	Prompt   string
	Response string
	Err      string
}

// Exchange kinds.
const (
	KindParentInference = "parent_inference"
	KindNodeResolve     = "node_resolve"
	KindChainRefine     = "chain_refine"
)

// ParentResult is the outcome of a parent inference call.
type ParentResult struct {
	ParentName string
	Exchange   Exchange
}

// ResolveResult is the outcome of a node resolution call.
type ResolveResult struct {
	NodeName string
	Exchange Exchange
}

// ChainResult is the outcome of a chain refinement call.
type ChainResult struct {
	Reply    ChainReply
	Exchange Exchange
}

// Service is the correction-service boundary the engine suspends on.
type Service interface {
	InferParent(ctx context.Context, req ParentInferenceRequest) (ParentResult, error)
	ResolveNodeRef(ctx context.Context, req NodeResolveRequest) (ResolveResult, error)
	RefineChains(ctx context.Context, reqs []ChainRequest) (ChainResult, error)
}
