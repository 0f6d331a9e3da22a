package domain

import "testing"

func TestNormalizeNodeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want NodeStatus
		ok   bool
	}{
		{"discovered", NodeStatusDiscovered, true},
		{"Discovered", NodeStatusDiscovered, true},
		{"  explored  ", NodeStatusDiscovered, true},
		{"unknown", NodeStatusUndiscovered, true},
		{"heard of", NodeStatusRumored, true},
		{"rumoured", NodeStatusRumored, true},
		{"rumored location", NodeStatusRumored, true},
		{"quest objective", NodeStatusQuestTarget, true},
		{"quest_target", NodeStatusQuestTarget, true},
		{"glowing", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizeNodeStatus(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("NormalizeNodeStatus(%q) = %q, %v, want %q, %v", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNormalizeNodeType(t *testing.T) {
	tests := []struct {
		raw  string
		want NodeType
		ok   bool
	}{
		{"region", NodeTypeRegion, true},
		{"Town", NodeTypeSettlement, true},
		{"building", NodeTypeExterior, true},
		{"hall", NodeTypeInterior, true},
		{"chamber", NodeTypeRoom, true},
		{"point of interest", NodeTypeFeature, true},
		{"poi", NodeTypeFeature, true},
		{"planet", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizeNodeType(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("NormalizeNodeType(%q) = %q, %v, want %q, %v", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNormalizeEdgeType(t *testing.T) {
	tests := []struct {
		raw  string
		want EdgeType
		ok   bool
	}{
		{"path", EdgeTypePath, true},
		{"Trail", EdgeTypePath, true},
		{"street", EdgeTypeRoad, true},
		{"gate", EdgeTypeDoor, true},
		{"staircase", EdgeTypeStairs, true},
		{"passage", EdgeTypeTunnel, true},
		{"ford", EdgeTypeBridge, true},
		{"portal", EdgeTypeShortcut, true},
		{"wormhole", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizeEdgeType(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("NormalizeEdgeType(%q) = %q, %v, want %q, %v", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNormalizeEdgeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want EdgeStatus
		ok   bool
	}{
		{"open", EdgeStatusOpen, true},
		{"passable", EdgeStatusOpen, true},
		{"sealed", EdgeStatusClosed, true},
		{"barred", EdgeStatusLocked, true},
		{"locked tight", EdgeStatusLocked, true},
		{"caved in", EdgeStatusBlocked, true},
		{"collapsed tunnel", EdgeStatusBlocked, true},
		{"secret", EdgeStatusHidden, true},
		{"rumoured crossing", EdgeStatusRumored, true},
		{"sparkling", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizeEdgeStatus(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("NormalizeEdgeStatus(%q) = %q, %v, want %q, %v", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestIsRemovalStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"destroyed", true},
		{"Removed", true},
		{"gone", true},
		{"demolished", true},
		{"razed", true},
		{"discovered", false},
		{"destroyed by fire", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := IsRemovalStatus(tt.raw); got != tt.want {
				t.Fatalf("IsRemovalStatus(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
