// ABOUTME: Shared pipeline wiring for CLI commands
// ABOUTME: Builds tokenizers, the OpenAI client, and the corpus store from config
package commands

import (
	"fmt"

	"github.com/galaxypedia-wiki/galaxygpt/internal/chat"
	"github.com/galaxypedia-wiki/galaxygpt/internal/config"
	"github.com/galaxypedia-wiki/galaxygpt/internal/llm"
	"github.com/galaxypedia-wiki/galaxygpt/internal/retrieval"
	"github.com/galaxypedia-wiki/galaxygpt/internal/storage/sqlite"
	"github.com/galaxypedia-wiki/galaxygpt/internal/tokenizer"
)

// pipeline bundles the collaborators every command needs.
type pipeline struct {
	cfg     *config.Config
	client  *llm.Client
	db      *sqlite.DB
	chatTok *tokenizer.Tiktoken
	embTok  *tokenizer.Tiktoken
}

// newPipeline loads config and opens every external collaborator.
func newPipeline() (*pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	client, err := llm.NewClientWithConfig(&llm.ClientConfig{
		APIKey:          cfg.OpenAIKey,
		ChatModel:       cfg.ChatModel,
		EmbeddingModel:  cfg.EmbeddingModel,
		ModerationModel: cfg.ModerationModel,
		MaxRetries:      cfg.MaxRetries,
		RetryDelay:      cfg.RetryDelay,
		Timeout:         cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}

	chatTok, err := tokenizer.ForModel(cfg.ChatModel)
	if err != nil {
		return nil, err
	}
	embTok, err := tokenizer.ForModel(cfg.EmbeddingModel)
	if err != nil {
		return nil, err
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = sqlite.DefaultDBPath()
	}
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, err
	}

	return &pipeline{cfg: cfg, client: client, db: db, chatTok: chatTok, embTok: embTok}, nil
}

// Close releases the corpus store.
func (p *pipeline) Close() error {
	return p.db.Close()
}

// newAssembler loads the corpus and builds an exhaustive-scan assembler.
func (p *pipeline) newAssembler() (*retrieval.Assembler, error) {
	segments, err := p.db.LoadSegments()
	if err != nil {
		return nil, err
	}
	ranker := retrieval.NewExhaustive(segments)
	return retrieval.NewAssembler(p.client, ranker, p.chatTok, p.embTok), nil
}

// newOrchestrator builds the chat orchestrator with the shared client as both
// completion and moderation provider.
func (p *pipeline) newOrchestrator(assembler *retrieval.Assembler) *chat.Orchestrator {
	return chat.New(chat.Deps{
		Completions:      p.client,
		Moderations:      p.client,
		Contexts:         assembler,
		Tokenizer:        p.chatTok,
		AllowUnmoderated: p.cfg.AllowUnmoderated,
	})
}

// contextLimits maps config defaults to retrieval limits.
func (p *pipeline) contextLimits() retrieval.Limits {
	return retrieval.Limits{
		MaxSegments: p.cfg.ContextMaxSegments,
		MaxTokens:   p.cfg.ContextMaxTokens,
	}
}
