// ABOUTME: Context assembler: query embedding, similarity ranking, token-budgeted greedy selection
// ABOUTME: The "Page: ... ###" separator is part of the prompt contract consumed by the chat package
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/galaxypedia-wiki/galaxygpt/internal/models"
	"github.com/galaxypedia-wiki/galaxygpt/internal/tokenizer"
)

// DefaultMaxSegments caps results when the caller sets no token budget.
const DefaultMaxSegments = 5

// segmentFormat is consumed verbatim by the chat prompt templates; changing it
// requires changing those templates too.
const segmentFormat = "Page: %s\nContent: %s\n\n###\n\n"

// EmbeddingProvider supplies the query's embedding vector.
type EmbeddingProvider interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Limits controls how much context is assembled. When MaxTokens is positive
// the assembly is token-budgeted; otherwise at most MaxSegments items are
// taken regardless of token cost.
type Limits struct {
	MaxSegments int
	MaxTokens   int
}

// Context is the assembled retrieval result.
type Context struct {
	// Text is the concatenation of accepted segments in ranked order.
	Text string
	// TokenCount is the running budget total: the question's token count plus
	// every accepted segment's, measured with the completion tokenizer.
	TokenCount int
	// QuestionTokens is the question's token count measured with the
	// embedding tokenizer.
	QuestionTokens int
}

// Assembler fetches similarity-ranked, token-budgeted context for a question.
type Assembler struct {
	provider      EmbeddingProvider
	ranker        Ranker
	completionTok tokenizer.Counter
	embeddingTok  tokenizer.Counter
}

// NewAssembler wires an assembler. completionTok measures the budget (it must
// be the completion model's tokenizer, or the budget math is meaningless);
// embeddingTok measures the reported question token count.
func NewAssembler(provider EmbeddingProvider, ranker Ranker, completionTok, embeddingTok tokenizer.Counter) *Assembler {
	return &Assembler{
		provider:      provider,
		ranker:        ranker,
		completionTok: completionTok,
		embeddingTok:  embeddingTok,
	}
}

// FetchContext embeds the question, ranks the corpus against it, and greedily
// assembles context within the limits. Selection is strictly greedy: the
// first candidate that would exceed a token budget stops the walk, and later
// smaller candidates are not considered.
func (a *Assembler) FetchContext(ctx context.Context, question string, limits Limits) (Context, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Context{}, fmt.Errorf("%w: the question cannot be empty", models.ErrValidation)
	}
	if a.ranker.Empty() {
		return Context{}, fmt.Errorf("%w: the corpus is empty, load a dataset first", models.ErrPrecondition)
	}

	queryVector, err := a.provider.EmbedText(ctx, question)
	if err != nil {
		return Context{}, fmt.Errorf("embedding question: %w", err)
	}

	ranked, err := a.ranker.Rank(ctx, queryVector)
	if err != nil {
		return Context{}, err
	}

	maxSegments := limits.MaxSegments
	if maxSegments <= 0 {
		maxSegments = DefaultMaxSegments
	}

	running := a.completionTok.CountTokens(question)
	appended := 0
	var sb strings.Builder

	for _, seg := range ranked {
		if limits.MaxTokens <= 0 {
			if appended >= maxSegments {
				break
			}
		} else {
			cost := a.completionTok.CountTokens(seg.Content)
			if running+cost > limits.MaxTokens {
				break
			}
			running += cost
		}

		fmt.Fprintf(&sb, segmentFormat, seg.PageTitle, seg.Content)
		appended++
	}

	return Context{
		Text:           sb.String(),
		TokenCount:     running,
		QuestionTokens: a.embeddingTok.CountTokens(question),
	}, nil
}
