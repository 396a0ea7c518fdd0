// ABOUTME: Tests for the greedy token-budget chunker
// ABOUTME: Verifies losslessness, budget compliance, and ordinal stamping

package chunker

import (
	"errors"
	"strings"
	"testing"

	"github.com/galaxypedia-wiki/galaxygpt/internal/models"
)

// charTokenizer treats every byte as one token, making budgets easy to reason
// about in tests.
type charTokenizer struct{}

func (charTokenizer) CountTokens(text string) int {
	return len(text)
}

func (charTokenizer) IndexByTokenCount(text string, maxTokens int) int {
	if len(text) <= maxTokens {
		return len(text)
	}
	return maxTokens
}

func TestSplit_EmptyContent(t *testing.T) {
	segments, err := Split("", charTokenizer{}, 10)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(segments) != 0 {
		t.Errorf("Expected no segments for empty content, got %d", len(segments))
	}
}

func TestSplit_FitsInOneSegment(t *testing.T) {
	segments, err := Split("short", charTokenizer{}, 10)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segments))
	}
	if segments[0].Content != "short" {
		t.Errorf("Content = %q, want %q", segments[0].Content, "short")
	}
	if segments[0].TokenCount != 5 {
		t.Errorf("TokenCount = %d, want 5", segments[0].TokenCount)
	}
}

func TestSplit_GreedyPrefixes(t *testing.T) {
	segments, err := Split("ABCDEFGHIJ", charTokenizer{}, 5)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(segments))
	}
	if segments[0].Content != "ABCDE" || segments[1].Content != "FGHIJ" {
		t.Errorf("segments = %q, %q; want ABCDE, FGHIJ", segments[0].Content, segments[1].Content)
	}
}

func TestSplit_Lossless(t *testing.T) {
	content := strings.Repeat("the quick brown fox jumps over the lazy dog ", 20)
	segments, err := Split(content, charTokenizer{}, 17)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	var rebuilt strings.Builder
	for _, seg := range segments {
		if seg.TokenCount > 17 {
			t.Errorf("segment exceeds budget: %d tokens", seg.TokenCount)
		}
		rebuilt.WriteString(seg.Content)
	}
	if rebuilt.String() != content {
		t.Error("concatenated segments do not reproduce the original content")
	}
}

func TestSplit_UnevenFinalSegment(t *testing.T) {
	segments, err := Split("ABCDEFG", charTokenizer{}, 3)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("Expected 3 segments, got %d", len(segments))
	}
	// Greedy: no look-ahead balancing, the tail keeps whatever is left.
	if segments[2].Content != "G" {
		t.Errorf("final segment = %q, want %q", segments[2].Content, "G")
	}
}

func TestSplit_InvalidBudget(t *testing.T) {
	for _, budget := range []int{0, -1} {
		_, err := Split("content", charTokenizer{}, budget)
		if err == nil {
			t.Errorf("Expected error for budget %d", budget)
			continue
		}
		if !errors.Is(err, models.ErrValidation) {
			t.Errorf("budget %d: error = %v, want ErrValidation", budget, err)
		}
	}
}

func TestSplitPage_SingleSegmentKeepsBareTitle(t *testing.T) {
	page := models.Page{Title: "Theia", Content: "small"}
	segments, err := SplitPage(page, charTokenizer{}, 100)
	if err != nil {
		t.Fatalf("SplitPage() error = %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(segments))
	}
	if segments[0].Ordinal != 0 {
		t.Errorf("Ordinal = %d, want 0", segments[0].Ordinal)
	}
	if key := segments[0].DisplayKey(); key != "Theia" {
		t.Errorf("DisplayKey() = %q, want %q", key, "Theia")
	}
}

func TestSplitPage_MultiSegmentOrdinals(t *testing.T) {
	page := models.Page{Title: "Galaxy", Content: "ABCDEFGHIJ"}
	segments, err := SplitPage(page, charTokenizer{}, 4)
	if err != nil {
		t.Fatalf("SplitPage() error = %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("Expected 3 segments, got %d", len(segments))
	}
	wantKeys := []string{"Galaxy (1)", "Galaxy (2)", "Galaxy (3)"}
	for i, seg := range segments {
		if seg.PageTitle != "Galaxy" {
			t.Errorf("segment %d PageTitle = %q", i, seg.PageTitle)
		}
		if seg.Ordinal != i+1 {
			t.Errorf("segment %d Ordinal = %d, want %d", i, seg.Ordinal, i+1)
		}
		if key := seg.DisplayKey(); key != wantKeys[i] {
			t.Errorf("segment %d DisplayKey() = %q, want %q", i, key, wantKeys[i])
		}
	}
}
