package mcpapi

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/marlowe-games/cartograph/internal/atlas/correction"
	"github.com/marlowe-games/cartograph/internal/atlas/domain"
	"github.com/marlowe-games/cartograph/internal/atlas/graph"
	"github.com/marlowe-games/cartograph/internal/atlas/reconcile"
)

type stubCorrection struct{}

func (stubCorrection) InferParent(ctx context.Context, req correction.ParentInferenceRequest) (correction.ParentResult, error) {
	return correction.ParentResult{}, errors.New("not scripted")
}

func (stubCorrection) ResolveNodeRef(ctx context.Context, req correction.NodeResolveRequest) (correction.ResolveResult, error) {
	return correction.ResolveResult{}, errors.New("not scripted")
}

func (stubCorrection) RefineChains(ctx context.Context, reqs []correction.ChainRequest) (correction.ChainResult, error) {
	return correction.ChainResult{}, errors.New("not scripted")
}

func testServer(t *testing.T, initial *graph.Graph) *Server {
	t.Helper()
	server, err := New(reconcile.New(stubCorrection{}, reconcile.WithRetryDelay(0)), initial)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return server
}

func villageGraph() *graph.Graph {
	g := graph.New()
	g.AddNode(&domain.Node{ID: "town", PlaceName: "Miller's Crossing", Type: domain.NodeTypeSettlement, Status: domain.NodeStatusDiscovered})
	g.AddNode(&domain.Node{ID: "tavern", PlaceName: "The Rusty Flagon", Type: domain.NodeTypeExterior, ParentID: "town", Status: domain.NodeStatusDiscovered, Description: "A creaky tavern."})
	return g
}

func TestNewRequiresEngine(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Fatal("expected an error without an engine")
	}
}

func TestApplyPatchToolCommitsGraph(t *testing.T) {
	server := testServer(t, villageGraph())
	handler := server.applyPatchHandler()

	patch := `{
		"nodesToAdd": [{"placeName": "The Cellar", "data": {"parentNodeId": "The Rusty Flagon", "description": "Cool and dark.", "status": "discovered", "nodeType": "room", "aliases": []}}],
		"suggestedCurrentMapNodeId": "The Cellar"
	}`
	_, result, err := handler(context.Background(), nil, ApplyPatchInput{Patch: patch})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !result.Applied {
		t.Fatalf("result = %+v, want applied", result)
	}
	if result.NodesAdded != 1 {
		t.Errorf("NodesAdded = %d, want 1", result.NodesAdded)
	}

	g, current := server.Snapshot()
	if len(g.Nodes) != 3 {
		t.Errorf("len(Nodes) = %d, want 3 after commit", len(g.Nodes))
	}
	if current == "" || g.Nodes[current] == nil || g.Nodes[current].PlaceName != "The Cellar" {
		t.Errorf("current = %q, want the suggested location", current)
	}
	if result.CurrentNodeID != current {
		t.Errorf("CurrentNodeID = %q, want %q", result.CurrentNodeID, current)
	}
}

func TestApplyPatchToolReturnsProblemsWithoutFailing(t *testing.T) {
	server := testServer(t, villageGraph())
	handler := server.applyPatchHandler()

	_, result, err := handler(context.Background(), nil, ApplyPatchInput{Patch: `{"nodesToAdd": [{"placeName": "X"}]}`})
	if err != nil {
		t.Fatalf("recoverable rejection should not error the tool: %v", err)
	}
	if result.Applied {
		t.Error("Applied = true, want false")
	}
	if len(result.Problems) == 0 {
		t.Error("Problems should carry the validation feedback")
	}

	g, _ := server.Snapshot()
	if len(g.Nodes) != 2 {
		t.Error("rejected patch must not commit")
	}
}

func TestApplyPatchToolRequiresPatch(t *testing.T) {
	server := testServer(t, nil)
	handler := server.applyPatchHandler()
	if _, _, err := handler(context.Background(), nil, ApplyPatchInput{}); err == nil {
		t.Fatal("expected an error for an empty patch")
	}
}

func TestCurrentLocationTool(t *testing.T) {
	server := testServer(t, villageGraph())
	handler := server.currentLocationHandler()

	_, result, err := handler(context.Background(), nil, CurrentLocationInput{})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if result.Known {
		t.Error("Known = true, want false before any location is set")
	}

	if err := server.SetCurrentNode("tavern"); err != nil {
		t.Fatalf("SetCurrentNode: %v", err)
	}
	_, result, err = handler(context.Background(), nil, CurrentLocationInput{})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !result.Known || result.Name != "The Rusty Flagon" {
		t.Fatalf("result = %+v, want The Rusty Flagon", result)
	}
	if len(result.Nearby) != 1 || result.Nearby[0].Name != "Miller's Crossing" {
		t.Fatalf("Nearby = %+v, want the settlement one hop away", result.Nearby)
	}
	if result.Nearby[0].Hops != 1 {
		t.Errorf("Hops = %d, want 1", result.Nearby[0].Hops)
	}
}

func TestCurrentLocationToolOmitsUnreachableNodes(t *testing.T) {
	g := villageGraph()
	g.AddNode(&domain.Node{ID: "vault", PlaceName: "The Sunken Vault", Type: domain.NodeTypeFeature, Status: domain.NodeStatusRumored})
	server := testServer(t, g)
	handler := server.currentLocationHandler()

	if err := server.SetCurrentNode("tavern"); err != nil {
		t.Fatalf("SetCurrentNode: %v", err)
	}
	_, result, err := handler(context.Background(), nil, CurrentLocationInput{})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	for _, entry := range result.Nearby {
		if entry.Name == "The Sunken Vault" {
			t.Fatalf("Nearby = %+v, want the disconnected vault left out", result.Nearby)
		}
	}
	if len(result.Nearby) != 1 {
		t.Fatalf("len(Nearby) = %d, want 1", len(result.Nearby))
	}
}

func TestSetCurrentNodeValidates(t *testing.T) {
	server := testServer(t, villageGraph())
	if err := server.SetCurrentNode("nope"); err == nil {
		t.Fatal("expected an error for an unknown node")
	}
	if err := server.SetCurrentNode(""); err != nil {
		t.Fatalf("clearing should succeed: %v", err)
	}
}

func TestNodesResourceListsSortedNodes(t *testing.T) {
	server := testServer(t, villageGraph())
	handler := server.nodesResourceHandler()

	res, err := handler(context.Background(), nil)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(res.Contents) != 1 {
		t.Fatalf("len(Contents) = %d, want 1", len(res.Contents))
	}
	var payload NodesPayload
	if err := json.Unmarshal([]byte(res.Contents[0].Text), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if len(payload.Nodes) != 2 {
		t.Fatalf("len(Nodes) = %d, want 2", len(payload.Nodes))
	}
	if payload.Nodes[0].Name != "Miller's Crossing" {
		t.Errorf("Nodes[0] = %q, want name-sorted listing", payload.Nodes[0].Name)
	}
}

func TestEdgesResourceResolvesEndpointNames(t *testing.T) {
	g := villageGraph()
	g.AddNode(&domain.Node{ID: "mill", PlaceName: "The Mill", Type: domain.NodeTypeExterior, ParentID: "town", Status: domain.NodeStatusDiscovered})
	g.AddEdge(&domain.Edge{ID: "e1", SourceID: "tavern", TargetID: "mill", Type: domain.EdgeTypePath, Status: domain.EdgeStatusOpen})
	server := testServer(t, g)

	res, err := server.edgesResourceHandler()(context.Background(), nil)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	var payload EdgesPayload
	if err := json.Unmarshal([]byte(res.Contents[0].Text), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if len(payload.Edges) != 1 {
		t.Fatalf("len(Edges) = %d, want 1", len(payload.Edges))
	}
	edge := payload.Edges[0]
	if edge.Source != "The Rusty Flagon" || edge.Target != "The Mill" {
		t.Errorf("edge = %q-%q, want place names", edge.Source, edge.Target)
	}
}
