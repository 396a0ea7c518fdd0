// ABOUTME: Tests for the exhaustive and delegated rankers
// ABOUTME: Verifies descending order, stable ties, and skipped unembedded segments

package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/galaxypedia-wiki/galaxygpt/internal/models"
)

func TestExhaustiveRank_DescendingBySimilarity(t *testing.T) {
	// Query along the x axis; angles away from it give 0.2 < 0.5 < 0.9 cosines.
	segments := []models.Segment{
		{PageTitle: "Far", Embedding: []float32{0.2, 0.98}},
		{PageTitle: "Near", Embedding: []float32{0.9, 0.436}},
		{PageTitle: "Mid", Embedding: []float32{0.5, 0.866}},
	}

	ranked, err := NewExhaustive(segments).Rank(context.Background(), []float32{1, 0})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	wantOrder := []string{"Near", "Mid", "Far"}
	if len(ranked) != len(wantOrder) {
		t.Fatalf("Expected %d results, got %d", len(wantOrder), len(ranked))
	}
	for i, title := range wantOrder {
		if ranked[i].PageTitle != title {
			t.Errorf("position %d = %q, want %q", i, ranked[i].PageTitle, title)
		}
	}
}

func TestExhaustiveRank_TiesKeepInsertionOrder(t *testing.T) {
	segments := []models.Segment{
		{PageTitle: "First", Embedding: []float32{1, 0}},
		{PageTitle: "Second", Embedding: []float32{2, 0}},
		{PageTitle: "Third", Embedding: []float32{3, 0}},
	}

	ranked, err := NewExhaustive(segments).Rank(context.Background(), []float32{1, 0})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if ranked[i].PageTitle != want {
			t.Errorf("position %d = %q, want %q", i, ranked[i].PageTitle, want)
		}
	}
}

func TestExhaustiveRank_SkipsUnembeddedSegments(t *testing.T) {
	segments := []models.Segment{
		{PageTitle: "Embedded", Embedding: []float32{1, 0}},
		{PageTitle: "Pending"},
	}

	ranked, err := NewExhaustive(segments).Rank(context.Background(), []float32{1, 0})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if len(ranked) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(ranked))
	}
	if ranked[0].PageTitle != "Embedded" {
		t.Errorf("result = %q", ranked[0].PageTitle)
	}
}

func TestExhaustiveEmpty(t *testing.T) {
	if !NewExhaustive(nil).Empty() {
		t.Error("ranker over no segments reported Empty() = false")
	}
	if NewExhaustive([]models.Segment{{PageTitle: "A"}}).Empty() {
		t.Error("ranker over one segment reported Empty() = true")
	}
}

type fakeIndex struct {
	results []models.Segment
	err     error
	limit   int
}

func (f *fakeIndex) Search(_ context.Context, _ []float32, limit int) ([]models.Segment, error) {
	f.limit = limit
	return f.results, f.err
}

func TestDelegatedRank_TrustsIndexOrder(t *testing.T) {
	index := &fakeIndex{results: []models.Segment{
		{PageTitle: "B"}, {PageTitle: "A"},
	}}

	ranked, err := NewDelegated(index, 7).Rank(context.Background(), []float32{1})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if index.limit != 7 {
		t.Errorf("index queried with limit %d, want 7", index.limit)
	}
	if ranked[0].PageTitle != "B" || ranked[1].PageTitle != "A" {
		t.Errorf("index order not preserved: %q, %q", ranked[0].PageTitle, ranked[1].PageTitle)
	}
}

func TestDelegatedRank_WrapsIndexError(t *testing.T) {
	index := &fakeIndex{err: errors.New("index offline")}
	if _, err := NewDelegated(index, 5).Rank(context.Background(), []float32{1}); err == nil {
		t.Fatal("Expected error from failing index")
	}
}

func TestDelegatedEmpty_AlwaysFalse(t *testing.T) {
	if NewDelegated(&fakeIndex{}, 5).Empty() {
		t.Error("delegated ranker must not report an empty corpus")
	}
}
