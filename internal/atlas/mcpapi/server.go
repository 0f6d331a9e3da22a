// Package mcpapi exposes the atlas over the Model Context Protocol: tools
// for applying map patches and reading the current location, plus readable
// node and edge resources.
package mcpapi

import (
	"context"
	"fmt"
	"sync"

	"github.com/marlowe-games/cartograph/internal/atlas/domain"
	"github.com/marlowe-games/cartograph/internal/atlas/graph"
	"github.com/marlowe-games/cartograph/internal/atlas/reconcile"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Cartograph Atlas MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Server hosts the MCP server over one in-memory atlas.
type Server struct {
	mcpServer *mcp.Server
	engine    *reconcile.Engine

	mu            sync.RWMutex
	graph         *graph.Graph
	currentNodeID string
}

// New creates a configured MCP server around the reconciliation engine and
// an initial graph. A nil graph starts the atlas empty.
func New(engine *reconcile.Engine, initial *graph.Graph) (*Server, error) {
	if engine == nil {
		return nil, fmt.Errorf("reconcile engine is required")
	}
	if initial == nil {
		initial = graph.New()
	}

	server := &Server{
		engine: engine,
		graph:  initial,
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	mcp.AddTool(mcpServer, applyPatchTool(), server.applyPatchHandler())
	mcp.AddTool(mcpServer, currentLocationTool(), server.currentLocationHandler())
	mcpServer.AddResource(nodesResource(), server.nodesResourceHandler())
	mcpServer.AddResource(edgesResource(), server.edgesResourceHandler())
	server.mcpServer = mcpServer

	return server, nil
}

// Run serves MCP over stdio until the context ends.
func (s *Server) Run(ctx context.Context) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// Snapshot returns the current graph and location under the read lock.
func (s *Server) Snapshot() (*graph.Graph, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph, s.currentNodeID
}

// SetCurrentNode records the party's position. An empty id clears it.
func (s *Server) SetCurrentNode(nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if nodeID != "" {
		if _, ok := s.graph.Nodes[nodeID]; !ok {
			return fmt.Errorf("node %q does not exist", nodeID)
		}
	}
	s.currentNodeID = nodeID
	return nil
}

// commit swaps in the reconciled graph and moves the current location when
// the batch suggested one.
func (s *Server) commit(result *reconcile.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph = result.Graph
	if result.SuggestedCurrentNodeID != "" {
		s.currentNodeID = result.SuggestedCurrentNodeID
	} else if s.currentNodeID != "" {
		if _, ok := s.graph.Nodes[s.currentNodeID]; !ok {
			s.currentNodeID = ""
		}
	}
}

func (s *Server) currentNode() *domain.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentNodeID == "" {
		return nil
	}
	return s.graph.Nodes[s.currentNodeID]
}
