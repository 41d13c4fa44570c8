package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/relict-dev/relict/internal/mcpserver"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes relict's detectors
as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "relict": {
        "command": "relict",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_unused_fields      Private fields never read anywhere in the project
  - analyze_unused_parameters  Parameters never read within their own body`,
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := mcpserver.NewServer(version)
	return server.Run(ctx)
}
