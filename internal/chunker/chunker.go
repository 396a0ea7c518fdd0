// ABOUTME: Greedy token-budget chunker for wiki pages
// ABOUTME: Repeatedly takes the longest prefix that fits the budget; lossless by construction
package chunker

import (
	"fmt"

	"github.com/galaxypedia-wiki/galaxygpt/internal/models"
	"github.com/galaxypedia-wiki/galaxygpt/internal/tokenizer"
)

// Split cuts content into token-bounded pieces. Each piece is the longest
// prefix of the remaining content whose token count does not exceed maxTokens;
// the walk never looks ahead to balance piece sizes. Concatenating the pieces
// in order reproduces content exactly.
//
// Empty content yields no pieces. maxTokens must be positive.
func Split(content string, tok tokenizer.Splitter, maxTokens int) ([]models.Segment, error) {
	if maxTokens <= 0 {
		return nil, fmt.Errorf("%w: max tokens must be positive, got %d", models.ErrValidation, maxTokens)
	}

	var pieces []string
	remainder := content
	for len(remainder) > 0 {
		idx := tok.IndexByTokenCount(remainder, maxTokens)
		if idx <= 0 || idx > len(remainder) {
			// A positive budget always admits at least one token, so a
			// non-advancing split index means the tokenizer is broken.
			return nil, fmt.Errorf("tokenizer returned split index %d for %d remaining bytes", idx, len(remainder))
		}
		pieces = append(pieces, remainder[:idx])
		remainder = remainder[idx:]
	}

	segments := make([]models.Segment, len(pieces))
	for i, piece := range pieces {
		segments[i] = models.Segment{
			Content:    piece,
			TokenCount: tok.CountTokens(piece),
		}
	}
	return segments, nil
}

// SplitPage chunks a page and stamps each segment with the page title and its
// ordinal. A page that fits in one segment keeps ordinal zero so its display
// key stays the bare title.
func SplitPage(page models.Page, tok tokenizer.Splitter, maxTokens int) ([]models.Segment, error) {
	segments, err := Split(page.Content, tok, maxTokens)
	if err != nil {
		return nil, fmt.Errorf("chunking page %q: %w", page.Title, err)
	}

	for i := range segments {
		segments[i].PageTitle = page.Title
		if len(segments) > 1 {
			segments[i].Ordinal = i + 1
		}
	}
	return segments, nil
}
