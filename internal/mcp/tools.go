// ABOUTME: MCP tool definitions and registration for the GalaxyGPT server
// ABOUTME: Exposes ask_question and fetch_context over stdio
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/galaxypedia-wiki/galaxygpt/internal/chat"
	"github.com/galaxypedia-wiki/galaxygpt/internal/retrieval"
)

// RegisterTools registers all MCP tools with the server.
func RegisterTools(server *mcpserver.MCPServer, orchestrator *chat.Orchestrator, assembler *retrieval.Assembler, defaults retrieval.Limits) *Handlers {
	handlers := &Handlers{
		orchestrator: orchestrator,
		assembler:    assembler,
		defaults:     defaults,
	}

	// 1. ask_question - retrieve context and answer a question about Galaxy
	server.AddTool(mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a question about Galaxy using the Galaxypedia corpus. Retrieves relevant wiki context and generates an answer.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer",
				},
				"username": map[string]interface{}{
					"type":        "string",
					"description": "Optional username for personalizing the response",
				},
				"max_context_tokens": map[string]interface{}{
					"type":        "number",
					"description": "Token budget for retrieved context (default: top segments by count)",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskQuestion)

	// 2. fetch_context - retrieve ranked wiki context without answering
	server.AddTool(mcp.Tool{
		Name:        "fetch_context",
		Description: "Retrieve similarity-ranked, token-budgeted Galaxypedia context for a query without generating an answer.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Query to retrieve context for",
				},
				"max_segments": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of segments to return (default: 5)",
					"default":     5,
				},
				"max_tokens": map[string]interface{}{
					"type":        "number",
					"description": "Token budget; overrides max_segments when set",
				},
			},
			Required: []string{"query"},
		},
	}, handlers.FetchContext)

	return handlers
}
