// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Exposes question answering and context retrieval over stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/galaxypedia-wiki/galaxygpt/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs GalaxyGPT as an MCP (Model Context Protocol) server, enabling
LLM agents to ask questions against the Galaxypedia corpus via stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically launched by an MCP client)
  galaxygpt mcp

  # Configure in an MCP client config file:
  # {
  #   "mcpServers": {
  #     "galaxygpt": {
  #       "command": "galaxygpt",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	p, err := newPipeline()
	if err != nil {
		return err
	}

	assembler, err := p.newAssembler()
	if err != nil {
		return err
	}
	orchestrator := p.newOrchestrator(assembler)

	server := mcpserver.NewMCPServer(
		"GalaxyGPT",
		versionInfo.Version,
	)
	mcp.RegisterTools(server, orchestrator, assembler, p.contextLimits())

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("GalaxyGPT MCP server starting on stdio...")
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}
		if err := p.Close(); err != nil {
			log.Printf("Warning: Error closing corpus database: %v", err)
		}
		if !quiet {
			log.Println("Shutdown complete")
		}

	case err := <-serverErr:
		p.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
