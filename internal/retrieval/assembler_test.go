// ABOUTME: Tests for the context assembler
// ABOUTME: Verifies greedy token budgeting, count fallback, and input validation

package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/galaxypedia-wiki/galaxygpt/internal/models"
)

// mapCounter reports scripted token counts per exact text, with a fallback of
// one token per byte for anything unscripted.
type mapCounter struct {
	counts map[string]int
}

func (m mapCounter) CountTokens(text string) int {
	if n, ok := m.counts[text]; ok {
		return n
	}
	return len(text)
}

type fakeEmbedProvider struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedProvider) EmbedText(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	return f.vector, f.err
}

func newTestAssembler(segments []models.Segment, counts map[string]int) (*Assembler, *fakeEmbedProvider) {
	provider := &fakeEmbedProvider{vector: []float32{1, 0}}
	tok := mapCounter{counts: counts}
	return NewAssembler(provider, NewExhaustive(segments), tok, tok), provider
}

func TestFetchContext_BlankQuestion(t *testing.T) {
	assembler, provider := newTestAssembler([]models.Segment{{PageTitle: "A", Embedding: []float32{1, 0}}}, nil)

	for _, question := range []string{"", "   ", "\t\n"} {
		_, err := assembler.FetchContext(context.Background(), question, Limits{})
		if !errors.Is(err, models.ErrValidation) {
			t.Errorf("question %q: error = %v, want ErrValidation", question, err)
		}
	}
	if provider.calls != 0 {
		t.Errorf("provider called %d times for invalid questions", provider.calls)
	}
}

func TestFetchContext_EmptyCorpus(t *testing.T) {
	assembler, provider := newTestAssembler(nil, nil)

	_, err := assembler.FetchContext(context.Background(), "what is the deity?", Limits{})
	if !errors.Is(err, models.ErrPrecondition) {
		t.Fatalf("error = %v, want ErrPrecondition", err)
	}
	if provider.calls != 0 {
		t.Error("the empty-corpus check must run before any embedding call")
	}
}

func TestFetchContext_CountModeTakesTopSegments(t *testing.T) {
	segments := []models.Segment{
		{PageTitle: "Low", Content: "low content", Embedding: []float32{0.2, 0.98}},
		{PageTitle: "High", Content: "high content", Embedding: []float32{1, 0}},
		{PageTitle: "Mid", Content: "mid content", Embedding: []float32{0.5, 0.866}},
	}
	assembler, _ := newTestAssembler(segments, nil)

	result, err := assembler.FetchContext(context.Background(), "q", Limits{MaxSegments: 2})
	if err != nil {
		t.Fatalf("FetchContext() error = %v", err)
	}

	want := "Page: High\nContent: high content\n\n###\n\nPage: Mid\nContent: mid content\n\n###\n\n"
	if result.Text != want {
		t.Errorf("Text = %q, want %q", result.Text, want)
	}
	if strings.Contains(result.Text, "Low") {
		t.Error("third-ranked segment leaked past MaxSegments = 2")
	}
}

func TestFetchContext_DefaultSegmentCap(t *testing.T) {
	segments := make([]models.Segment, 8)
	for i := range segments {
		segments[i] = models.Segment{
			PageTitle: fmt.Sprintf("Page%d", i),
			Content:   "c",
			Embedding: []float32{1, 0},
		}
	}
	assembler, _ := newTestAssembler(segments, nil)

	result, err := assembler.FetchContext(context.Background(), "q", Limits{})
	if err != nil {
		t.Fatalf("FetchContext() error = %v", err)
	}
	if got := strings.Count(result.Text, "###"); got != DefaultMaxSegments {
		t.Errorf("assembled %d segments, want %d", got, DefaultMaxSegments)
	}
}

func TestFetchContext_BudgetModeStopsAtFirstOverflow(t *testing.T) {
	segments := []models.Segment{
		{PageTitle: "A", Content: "segment-a", Embedding: []float32{1, 0}},
		{PageTitle: "B", Content: "segment-b", Embedding: []float32{0.9, 0.436}},
		{PageTitle: "C", Content: "segment-c", Embedding: []float32{0.5, 0.866}},
	}
	counts := map[string]int{
		"the question": 10,
		"segment-a":    4,
		"segment-b":    5, // 10+4+5 = 19 > 15: stops the walk
		"segment-c":    1, // would fit, but greedy selection never reaches it
	}
	assembler, _ := newTestAssembler(segments, counts)

	result, err := assembler.FetchContext(context.Background(), "the question", Limits{MaxTokens: 15})
	if err != nil {
		t.Fatalf("FetchContext() error = %v", err)
	}
	if !strings.Contains(result.Text, "segment-a") {
		t.Error("first segment within budget was not included")
	}
	if strings.Contains(result.Text, "segment-b") || strings.Contains(result.Text, "segment-c") {
		t.Errorf("greedy walk must stop at the first overflow, got %q", result.Text)
	}
	if result.TokenCount != 14 {
		t.Errorf("TokenCount = %d, want 14 (question 10 + segment 4)", result.TokenCount)
	}
}

func TestFetchContext_QuestionAloneCanExhaustBudget(t *testing.T) {
	segments := []models.Segment{
		{PageTitle: "A", Content: "segment-a", Embedding: []float32{1, 0}},
	}
	counts := map[string]int{"the question": 20, "segment-a": 1}
	assembler, _ := newTestAssembler(segments, counts)

	result, err := assembler.FetchContext(context.Background(), "the question", Limits{MaxTokens: 15})
	if err != nil {
		t.Fatalf("FetchContext() error = %v", err)
	}
	if result.Text != "" {
		t.Errorf("Expected empty context, got %q", result.Text)
	}
	if result.TokenCount != 20 {
		t.Errorf("TokenCount = %d, want 20", result.TokenCount)
	}
}

func TestFetchContext_ReportsQuestionTokens(t *testing.T) {
	segments := []models.Segment{{PageTitle: "A", Content: "c", Embedding: []float32{1, 0}}}
	assembler, _ := newTestAssembler(segments, map[string]int{"hello": 5})

	result, err := assembler.FetchContext(context.Background(), "hello", Limits{})
	if err != nil {
		t.Fatalf("FetchContext() error = %v", err)
	}
	if result.QuestionTokens != 5 {
		t.Errorf("QuestionTokens = %d, want 5", result.QuestionTokens)
	}
}

func TestFetchContext_EmbeddingFailure(t *testing.T) {
	provider := &fakeEmbedProvider{err: errors.New("provider down")}
	tok := mapCounter{}
	assembler := NewAssembler(provider, NewExhaustive([]models.Segment{
		{PageTitle: "A", Content: "c", Embedding: []float32{1, 0}},
	}), tok, tok)

	if _, err := assembler.FetchContext(context.Background(), "q", Limits{}); err == nil {
		t.Fatal("Expected error when query embedding fails")
	}
}
