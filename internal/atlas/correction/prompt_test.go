package correction

import (
	"strings"
	"testing"
)

func TestParentInferencePromptRendersNeighborhood(t *testing.T) {
	prompt := buildParentInferencePrompt(ParentInferenceRequest{
		Name:         "The Grain Store",
		NodeType:     "exterior",
		Description:  "Sacks stacked to the rafters.",
		RootSentinel: "NONE",
		Neighborhood: []NodeSummary{
			{Name: "Miller's Crossing", NodeType: "settlement", Hops: 0},
			{Name: "The Old Mill", NodeType: "exterior", Hops: 1},
			{Name: "The Sunken Vault", NodeType: "feature", Unreachable: true},
		},
	})

	if !strings.Contains(prompt, "- The Old Mill (exterior, 1 hops away)") {
		t.Errorf("prompt missing reachable entry:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- The Sunken Vault (feature, no known route)") {
		t.Errorf("prompt missing unreachable entry:\n%s", prompt)
	}
	if strings.Contains(prompt, "1048576") {
		t.Errorf("prompt leaks the unreachable distance sentinel:\n%s", prompt)
	}
}

func TestNodeResolvePromptNamesReference(t *testing.T) {
	prompt := buildNodeResolvePrompt(NodeResolveRequest{
		Reference: "the old millhouse",
		Neighborhood: []NodeSummary{
			{Name: "The Old Mill", NodeType: "exterior", Hops: 2},
		},
	})

	if !strings.Contains(prompt, `"the old millhouse"`) {
		t.Errorf("prompt missing the unresolved reference:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- The Old Mill (exterior, 2 hops away)") {
		t.Errorf("prompt missing neighborhood entry:\n%s", prompt)
	}
}
