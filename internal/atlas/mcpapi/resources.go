package mcpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NodeEntry represents one node in the atlas://nodes resource payload.
type NodeEntry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	NodeType    string   `json:"node_type"`
	ParentID    string   `json:"parent_id,omitempty"`
}

// NodesPayload represents the atlas://nodes resource payload.
type NodesPayload struct {
	Nodes []NodeEntry `json:"nodes"`
}

// EdgeEntry represents one edge in the atlas://edges resource payload.
type EdgeEntry struct {
	ID          string `json:"id"`
	Source      string `json:"source"`
	Target      string `json:"target"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
	TravelTime  string `json:"travel_time,omitempty"`
}

// EdgesPayload represents the atlas://edges resource payload.
type EdgesPayload struct {
	Edges []EdgeEntry `json:"edges"`
}

func nodesResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "atlas_nodes",
		Title:       "Atlas nodes",
		Description: "Readable listing of every location in the atlas",
		MIMEType:    "application/json",
		URI:         "atlas://nodes",
	}
}

func edgesResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "atlas_edges",
		Title:       "Atlas edges",
		Description: "Readable listing of every connection in the atlas",
		MIMEType:    "application/json",
		URI:         "atlas://edges",
	}
}

func (s *Server) nodesResourceHandler() mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		g, _ := s.Snapshot()

		payload := NodesPayload{}
		for _, node := range g.Nodes {
			payload.Nodes = append(payload.Nodes, NodeEntry{
				ID:          node.ID,
				Name:        node.PlaceName,
				Aliases:     node.Aliases,
				Description: node.Description,
				Status:      string(node.Status),
				NodeType:    string(node.Type),
				ParentID:    node.ParentID,
			})
		}
		sort.Slice(payload.Nodes, func(i, j int) bool {
			return payload.Nodes[i].Name < payload.Nodes[j].Name
		})

		return resourceResult(req, nodesResource().URI, payload)
	}
}

func (s *Server) edgesResourceHandler() mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		g, _ := s.Snapshot()

		payload := EdgesPayload{}
		for _, edge := range g.Edges {
			entry := EdgeEntry{
				ID:          edge.ID,
				Type:        string(edge.Type),
				Status:      string(edge.Status),
				Description: edge.Description,
				TravelTime:  edge.TravelTime,
			}
			if source := g.Nodes[edge.SourceID]; source != nil {
				entry.Source = source.PlaceName
			}
			if target := g.Nodes[edge.TargetID]; target != nil {
				entry.Target = target.PlaceName
			}
			payload.Edges = append(payload.Edges, entry)
		}
		sort.Slice(payload.Edges, func(i, j int) bool {
			if payload.Edges[i].Source != payload.Edges[j].Source {
				return payload.Edges[i].Source < payload.Edges[j].Source
			}
			return payload.Edges[i].Target < payload.Edges[j].Target
		})

		return resourceResult(req, edgesResource().URI, payload)
	}
}

func resourceResult(req *mcp.ReadResourceRequest, fallbackURI string, payload any) (*mcp.ReadResourceResult, error) {
	uri := fallbackURI
	if req != nil && req.Params != nil && req.Params.URI != "" {
		uri = req.Params.URI
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource payload: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
