package domain

import "testing"

func TestNodeTypeDepth(t *testing.T) {
	order := []NodeType{
		NodeTypeRegion,
		NodeTypeSettlement,
		NodeTypeExterior,
		NodeTypeInterior,
		NodeTypeRoom,
		NodeTypeFeature,
	}
	for i, nodeType := range order {
		if got := nodeType.Depth(); got != i {
			t.Errorf("%s.Depth() = %d, want %d", nodeType, got, i)
		}
	}
	if got := NodeType("asteroid").Depth(); got != len(order) {
		t.Errorf("unknown Depth() = %d, want %d", got, len(order))
	}
}

func TestNodeTypeIsValid(t *testing.T) {
	if !NodeTypeRoom.IsValid() {
		t.Error("room should be valid")
	}
	if NodeType("asteroid").IsValid() {
		t.Error("asteroid should be invalid")
	}
}

func TestNodeStatusIsValid(t *testing.T) {
	for _, status := range []NodeStatus{NodeStatusUndiscovered, NodeStatusDiscovered, NodeStatusRumored, NodeStatusQuestTarget} {
		if !status.IsValid() {
			t.Errorf("%s should be valid", status)
		}
	}
	if NodeStatus("glowing").IsValid() {
		t.Error("glowing should be invalid")
	}
}

func TestNodeAddAlias(t *testing.T) {
	node := &Node{PlaceName: "The Old Tower"}

	node.AddAlias("Wizard's Spire")
	node.AddAlias("wizard's spire")  // duplicate after folding
	node.AddAlias("the old tower")   // current name after folding
	node.AddAlias("   ")             // blank
	node.AddAlias("Tower of Sorrow") // second distinct alias

	if len(node.Aliases) != 2 {
		t.Fatalf("Aliases = %v, want 2 entries", node.Aliases)
	}
	if !node.HasAlias("WIZARD'S SPIRE") {
		t.Error("HasAlias should match case-insensitively")
	}
	if node.HasAlias("The Keep") {
		t.Error("HasAlias matched an alias that was never added")
	}
}

func TestFoldName(t *testing.T) {
	tests := []struct {
		a, b string
		same bool
	}{
		{"The Old Tower", "the old tower", true},
		{"  Mill Pond ", "Mill Pond", true},
		{"STRASSE", "strasse", true},
		{"Tower", "Keep", false},
	}
	for _, tt := range tests {
		if got := SameName(tt.a, tt.b); got != tt.same {
			t.Errorf("SameName(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.same)
		}
	}
}
