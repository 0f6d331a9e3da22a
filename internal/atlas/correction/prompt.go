package correction

import (
	"fmt"
	"strings"
)

func writeNeighborhood(sb *strings.Builder, listing []NodeSummary) {
	sb.WriteString("Known locations, nearest to the party first:\n")
	for _, entry := range listing {
		if entry.Unreachable {
			fmt.Fprintf(sb, "- %s (%s, no known route)\n", entry.Name, entry.NodeType)
			continue
		}
		fmt.Fprintf(sb, "- %s (%s, %d hops away)\n", entry.Name, entry.NodeType, entry.Hops)
	}
}

func buildParentInferencePrompt(req ParentInferenceRequest) string {
	var sb strings.Builder
	sb.WriteString("You are correcting a game map update.\n")
	fmt.Fprintf(&sb, "A new location %q (%s) was described as: %s\n", req.Name, req.NodeType, req.Description)
	if req.FailedRef != "" {
		fmt.Fprintf(&sb, "Its stated parent %q does not match any known location.\n", req.FailedRef)
	} else {
		sb.WriteString("No parent location was stated for it.\n")
	}
	writeNeighborhood(&sb, req.Neighborhood)
	fmt.Fprintf(&sb, "Reply with exactly one line: the name of the most plausible parent location from the list, or %q if it belongs at the top level.\n", req.RootSentinel)
	return sb.String()
}

func buildNodeResolvePrompt(req NodeResolveRequest) string {
	var sb strings.Builder
	sb.WriteString("You are correcting a game map update.\n")
	fmt.Fprintf(&sb, "A connection references %q, which does not match any known location.\n", req.Reference)
	writeNeighborhood(&sb, req.Neighborhood)
	sb.WriteString("Reply with exactly one line: the name of the known location the reference most plausibly means.\n")
	return sb.String()
}

func buildChainRefinePrompt(reqs []ChainRequest) string {
	var sb strings.Builder
	sb.WriteString("You are naming connector locations synthesized to link distant places on a game map.\n\n")
	for _, req := range reqs {
		fmt.Fprintf(&sb, "Chain %s connects %q and %q.\n", req.ID, req.Source.Name, req.Target.Name)
		if req.Source.Description != "" {
			fmt.Fprintf(&sb, "  %q: %s\n", req.Source.Name, req.Source.Description)
		}
		if req.Target.Description != "" {
			fmt.Fprintf(&sb, "  %q: %s\n", req.Target.Name, req.Target.Description)
		}
		for _, pair := range req.Junctions {
			fmt.Fprintf(&sb, "  Walked ancestor pair: %q and %q\n", pair.A, pair.B)
		}
		for _, node := range req.Nodes {
			fmt.Fprintf(&sb, "  Placeholder node %q sits inside %q and needs a thematic name and description.\n", node.Name, node.ParentName)
		}
		fmt.Fprintf(&sb, "  The connector nodes are joined by a %s connection.\n", req.Edge.Type)
		for _, feedback := range req.Feedback {
			fmt.Fprintf(&sb, "  Previous attempt was rejected: %s\n", feedback)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(`Reply with a single JSON object of this exact shape:
{"chains":[{"chainId":"...","nodes":[{"placeholder":"...","newName":"...","description":"..."}],"edge":{"type":"...","status":"...","description":"...","travelTime":"..."}}]}
Every requested chain and every placeholder must appear. Use the placeholder names given above verbatim.
`)
	return sb.String()
}
