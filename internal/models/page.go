// ABOUTME: Page and Segment types for the wiki corpus
// ABOUTME: Segments are token-bounded slices of a page, keyed for batch correlation
package models

import "fmt"

// Page is a single wiki article. Pages are immutable once ingested; re-running
// ingestion replaces them wholesale.
type Page struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Segment is a token-bounded slice of a page's content. Concatenating a page's
// segments in ordinal order reproduces the page content exactly.
//
// Ordinal is 1-based. It is zero when the whole page fit in a single segment,
// in which case the display key is just the page title.
type Segment struct {
	PageTitle  string    `json:"page_title"`
	Ordinal    int       `json:"ordinal"`
	Content    string    `json:"content"`
	TokenCount int       `json:"token_count"`
	Embedding  []float32 `json:"embedding,omitempty"`
}

// DisplayKey returns the unique key used to correlate this segment with
// asynchronous embedding results: the page title, or "{title} ({ordinal})"
// when the page was split into multiple segments.
func (s Segment) DisplayKey() string {
	if s.Ordinal == 0 {
		return s.PageTitle
	}
	return fmt.Sprintf("%s (%d)", s.PageTitle, s.Ordinal)
}

// HasEmbedding reports whether a vector has been computed for this segment.
func (s Segment) HasEmbedding() bool {
	return len(s.Embedding) > 0
}
