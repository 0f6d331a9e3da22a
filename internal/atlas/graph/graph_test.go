package graph

import (
	"testing"

	"github.com/marlowe-games/cartograph/internal/atlas/domain"
)

func testGraph() *Graph {
	g := New()
	g.AddNode(&domain.Node{ID: "region", PlaceName: "The Borderlands", Type: domain.NodeTypeRegion})
	g.AddNode(&domain.Node{ID: "town", PlaceName: "Miller's Crossing", Type: domain.NodeTypeSettlement, ParentID: "region"})
	g.AddNode(&domain.Node{ID: "tavern", PlaceName: "The Rusty Flagon", Type: domain.NodeTypeExterior, ParentID: "town", Aliases: []string{"The Flagon"}})
	g.AddNode(&domain.Node{ID: "bar", PlaceName: "The Bar", Type: domain.NodeTypeFeature, ParentID: "tavern"})
	g.AddNode(&domain.Node{ID: "hearth", PlaceName: "The Hearth", Type: domain.NodeTypeFeature, ParentID: "tavern"})
	g.AddEdge(&domain.Edge{ID: "e1", SourceID: "bar", TargetID: "hearth", Type: domain.EdgeTypePath, Status: domain.EdgeStatusOpen})
	return g
}

func TestCloneIsDeep(t *testing.T) {
	g := testGraph()
	clone := g.Clone()

	clone.Nodes["tavern"].PlaceName = "The Renamed Flagon"
	clone.Nodes["tavern"].Aliases[0] = "Changed"
	clone.Edges["e1"].Status = domain.EdgeStatusBlocked
	clone.AddNode(&domain.Node{ID: "new", PlaceName: "New Place"})

	if g.Nodes["tavern"].PlaceName != "The Rusty Flagon" {
		t.Error("clone mutation leaked into original node")
	}
	if g.Nodes["tavern"].Aliases[0] != "The Flagon" {
		t.Error("clone mutation leaked into original aliases")
	}
	if g.Edges["e1"].Status != domain.EdgeStatusOpen {
		t.Error("clone mutation leaked into original edge")
	}
	if _, ok := g.Nodes["new"]; ok {
		t.Error("clone insertion leaked into original graph")
	}
}

func TestRemoveNodeCascadesEdges(t *testing.T) {
	g := testGraph()
	g.RemoveNode("bar")

	if _, ok := g.Nodes["bar"]; ok {
		t.Error("node should be removed")
	}
	if len(g.Edges) != 0 {
		t.Errorf("len(Edges) = %d, want 0 after cascade", len(g.Edges))
	}
}

func TestFindEdgeMatchesEitherDirection(t *testing.T) {
	g := testGraph()

	if g.FindEdge("hearth", "bar", domain.EdgeTypePath) == nil {
		t.Error("FindEdge should match regardless of endpoint order")
	}
	if g.FindEdge("bar", "hearth", domain.EdgeTypeRoad) != nil {
		t.Error("FindEdge should respect the type filter")
	}
	if g.FindEdge("bar", "hearth", "") == nil {
		t.Error("empty type should match any edge")
	}
}

func TestAncestorsStopsOnCycle(t *testing.T) {
	g := New()
	g.AddNode(&domain.Node{ID: "a", PlaceName: "A", ParentID: "b"})
	g.AddNode(&domain.Node{ID: "b", PlaceName: "B", ParentID: "a"})

	ancestors := g.Ancestors(g.Nodes["a"])
	if len(ancestors) > 2 {
		t.Fatalf("len(ancestors) = %d, cycle was not detected", len(ancestors))
	}
}

func TestIndexResolvePrecedence(t *testing.T) {
	g := testGraph()
	// A node whose place name collides with another node's id. The id match
	// must win.
	g.AddNode(&domain.Node{ID: "x1", PlaceName: "tavern", Type: domain.NodeTypeFeature, ParentID: "town"})
	ix := NewIndex(g)

	tests := []struct {
		ref  string
		want string
	}{
		{"tavern", "tavern"},             // id beats exact name
		{"The Rusty Flagon", "tavern"},   // exact name
		{"the rusty flagon", "tavern"},   // folded name
		{"THE FLAGON", "tavern"},         // folded alias
		{"Miller's Crossing", "town"},    // apostrophes survive folding
		{"The Borderlands ", "region"},   // trailing space trimmed
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			node := ix.Resolve(tt.ref)
			if node == nil {
				t.Fatalf("Resolve(%q) = nil, want %q", tt.ref, tt.want)
			}
			if node.ID != tt.want {
				t.Fatalf("Resolve(%q) = %q, want %q", tt.ref, node.ID, tt.want)
			}
		})
	}

	if ix.Resolve("") != nil {
		t.Error("empty reference should not resolve")
	}
	if ix.Resolve("The Sunken City") != nil {
		t.Error("unknown reference should not resolve")
	}
}

func TestIndexRebuildSeesRenames(t *testing.T) {
	g := testGraph()
	ix := NewIndex(g)

	node := g.Nodes["tavern"]
	node.AddAlias(node.PlaceName)
	node.PlaceName = "The Gilded Flagon"
	ix.Rebuild(g)

	if got := ix.Resolve("The Gilded Flagon"); got == nil || got.ID != "tavern" {
		t.Error("new name should resolve after rebuild")
	}
	if got := ix.Resolve("The Rusty Flagon"); got == nil || got.ID != "tavern" {
		t.Error("old name should still resolve through the alias")
	}
}
