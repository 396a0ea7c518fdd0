// ABOUTME: Token counting for budget math, backed by tiktoken BPE encodings
// ABOUTME: Budgets only make sense when measured with the model family that defined them
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Counter counts tokens in text for a specific model family.
type Counter interface {
	CountTokens(text string) int
}

// Splitter additionally locates token-aligned split points, which the chunker
// needs to cut pages at exact token budgets.
type Splitter interface {
	Counter

	// IndexByTokenCount returns the byte offset ending the longest prefix of
	// text that spans at most maxTokens tokens. If the whole text fits, the
	// offset is len(text).
	IndexByTokenCount(text string, maxTokens int) int
}

// Tiktoken wraps a tiktoken encoding for one model.
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

// ForModel returns a tokenizer for the given model name (e.g. "gpt-4o-mini",
// "text-embedding-3-small").
func ForModel(model string) (*Tiktoken, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("loading encoding for model %q: %w", model, err)
	}
	return &Tiktoken{enc: enc}, nil
}

// CountTokens returns the number of tokens text encodes to.
func (t *Tiktoken) CountTokens(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// IndexByTokenCount returns the byte offset ending the longest prefix of text
// spanning at most maxTokens tokens. BPE tokens partition the input bytes, so
// decoding the first maxTokens tokens yields an exact byte prefix.
func (t *Tiktoken) IndexByTokenCount(text string, maxTokens int) int {
	tokens := t.enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return len(text)
	}
	return len(t.enc.Decode(tokens[:maxTokens]))
}
