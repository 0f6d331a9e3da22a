package mcpapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/marlowe-games/cartograph/internal/atlas/reconcile"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ApplyPatchInput represents the MCP tool input for applying a map patch.
type ApplyPatchInput struct {
	Patch string `json:"patch" jsonschema:"map patch document as a JSON string"`
}

// ApplyPatchResult represents the MCP tool output for applying a map patch.
type ApplyPatchResult struct {
	Applied       bool     `json:"applied" jsonschema:"whether the patch was applied"`
	NodesAdded    int      `json:"nodes_added" jsonschema:"number of nodes created"`
	EdgesAdded    int      `json:"edges_added" jsonschema:"number of edges created"`
	DroppedNodes  []string `json:"dropped_nodes,omitempty" jsonschema:"node names dropped during reconciliation"`
	DroppedEdges  []string `json:"dropped_edges,omitempty" jsonschema:"edge labels dropped during reconciliation"`
	Warnings      []string `json:"warnings,omitempty" jsonschema:"non-fatal reconciliation notes"`
	Problems      []string `json:"problems,omitempty" jsonschema:"validation problems when the patch was rejected"`
	CurrentNodeID string   `json:"current_node_id,omitempty" jsonschema:"current location after the patch"`
}

// CurrentLocationInput represents the MCP tool input for reading location.
type CurrentLocationInput struct {
	NeighborLimit int `json:"neighbor_limit,omitempty" jsonschema:"maximum nearby locations to list, default 10"`
}

// LocationEntry is one nearby location in a current-location reading.
type LocationEntry struct {
	Name     string `json:"name"`
	NodeType string `json:"node_type"`
	Status   string `json:"status"`
	Hops     int    `json:"hops"`
}

// CurrentLocationResult represents the MCP tool output for reading location.
type CurrentLocationResult struct {
	Known       bool            `json:"known" jsonschema:"whether a current location is set"`
	Name        string          `json:"name,omitempty" jsonschema:"current location name"`
	NodeType    string          `json:"node_type,omitempty" jsonschema:"current location type"`
	Description string          `json:"description,omitempty" jsonschema:"current location description"`
	Nearby      []LocationEntry `json:"nearby,omitempty" jsonschema:"nearby locations ordered by hop distance"`
}

func applyPatchTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "atlas_apply_patch",
		Description: "Validates and applies a map patch document to the atlas",
	}
}

func currentLocationTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "atlas_current_location",
		Description: "Reads the party's current location and its surroundings",
	}
}

func (s *Server) applyPatchHandler() mcp.ToolHandlerFor[ApplyPatchInput, ApplyPatchResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ApplyPatchInput) (*mcp.CallToolResult, ApplyPatchResult, error) {
		if input.Patch == "" {
			return nil, ApplyPatchResult{}, fmt.Errorf("patch is required")
		}

		current, currentID := s.Snapshot()
		result, err := s.engine.ApplyPatch(ctx, current, []byte(input.Patch), currentID)
		if err != nil {
			var batchErr *reconcile.BatchError
			if errors.As(err, &batchErr) && batchErr.Recoverable() && len(batchErr.Problems) > 0 {
				// Rejected but correctable: hand the problems back so the
				// author can fix the patch and retry.
				return nil, ApplyPatchResult{Problems: batchErr.Problems}, nil
			}
			return nil, ApplyPatchResult{}, fmt.Errorf("apply patch failed: %w", err)
		}

		s.commit(result)
		_, newCurrent := s.Snapshot()

		return nil, ApplyPatchResult{
			Applied:       true,
			NodesAdded:    len(result.AddedNodeIDs),
			EdgesAdded:    len(result.AddedEdgeIDs),
			DroppedNodes:  result.DroppedNodes,
			DroppedEdges:  result.DroppedEdges,
			Warnings:      result.Warnings,
			CurrentNodeID: newCurrent,
		}, nil
	}
}

func (s *Server) currentLocationHandler() mcp.ToolHandlerFor[CurrentLocationInput, CurrentLocationResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CurrentLocationInput) (*mcp.CallToolResult, CurrentLocationResult, error) {
		limit := input.NeighborLimit
		if limit <= 0 {
			limit = 10
		}

		node := s.currentNode()
		if node == nil {
			return nil, CurrentLocationResult{Known: false}, nil
		}

		g, _ := s.Snapshot()
		var nearby []LocationEntry
		for _, entry := range g.Neighborhood(node.ID, limit+1) {
			if entry.Node.ID == node.ID || entry.Unreachable() {
				continue
			}
			nearby = append(nearby, LocationEntry{
				Name:     entry.Node.PlaceName,
				NodeType: string(entry.Node.Type),
				Status:   string(entry.Node.Status),
				Hops:     entry.Hops,
			})
		}
		if len(nearby) > limit {
			nearby = nearby[:limit]
		}

		return nil, CurrentLocationResult{
			Known:       true,
			Name:        node.PlaceName,
			NodeType:    string(node.Type),
			Description: node.Description,
			Nearby:      nearby,
		}, nil
	}
}
