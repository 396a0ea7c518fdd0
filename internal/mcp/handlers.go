// ABOUTME: MCP tool handler implementations for the GalaxyGPT server
// ABOUTME: User-facing rejections map to tool errors, never to protocol failures
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/galaxypedia-wiki/galaxygpt/internal/chat"
	"github.com/galaxypedia-wiki/galaxygpt/internal/retrieval"
)

// Handlers contains the handler functions for all MCP tools.
type Handlers struct {
	orchestrator *chat.Orchestrator
	assembler    *retrieval.Assembler
	defaults     retrieval.Limits
}

// AskQuestion handles the ask_question tool.
func (h *Handlers) AskQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	limits := h.defaults
	if budget := request.GetInt("max_context_tokens", 0); budget > 0 {
		limits.MaxTokens = budget
	}

	fetched, err := h.assembler.FetchContext(ctx, question, limits)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("context retrieval failed: %v", err)), nil
	}

	answer, err := h.orchestrator.AnswerQuestion(ctx, question, fetched.Text, chat.AskOptions{
		Username: request.GetString("username", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("answering failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"answer":         answer.Text,
		"answer_tokens":  answer.TokenCount,
		"context_tokens": fetched.TokenCount,
	}
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// FetchContext handles the fetch_context tool.
func (h *Handlers) FetchContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	limits := retrieval.Limits{
		MaxSegments: request.GetInt("max_segments", retrieval.DefaultMaxSegments),
		MaxTokens:   request.GetInt("max_tokens", 0),
	}

	fetched, err := h.assembler.FetchContext(ctx, query, limits)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("context retrieval failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"context":         fetched.Text,
		"context_tokens":  fetched.TokenCount,
		"question_tokens": fetched.QuestionTokens,
	}
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}
