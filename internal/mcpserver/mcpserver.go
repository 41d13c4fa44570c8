// Package mcpserver exposes relict's detectors as MCP tools over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and registers the relict analysis tools.
type Server struct {
	server *mcp.Server
}

// NewServer creates a new MCP server with all relict tools registered.
func NewServer(version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "relict",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	s.registerTools()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "analyze_unused_fields",
		Description: "Detect private fields that are never read anywhere in the project. " +
			"Write-only fields (assigned but never read) are included. " +
			"Supports C#, Java, TypeScript, JavaScript, and Go.",
	}, handleAnalyzeUnusedFields)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "analyze_unused_parameters",
		Description: "Detect parameters that are never read within their own method, " +
			"constructor, local function, or lambda body. Override, interface, and " +
			"bodyless members are exempt.",
	}, handleAnalyzeUnusedParameters)
}
