// ABOUTME: Similarity ranking over the segment corpus
// ABOUTME: Exhaustive in-memory scan, or a delegated top-K index trusted as-is
package retrieval

import (
	"context"
	"fmt"
	"sort"

	"github.com/galaxypedia-wiki/galaxygpt/internal/models"
)

// Ranker orders corpus segments by relevance to a query vector, best first.
type Ranker interface {
	Rank(ctx context.Context, queryVector []float32) ([]models.Segment, error)
	// Empty reports whether the underlying corpus holds no segments at all.
	Empty() bool
}

// Exhaustive scores every stored segment against the query vector. At this
// corpus scale a full scan beats maintaining an index, so everything is held
// in memory.
type Exhaustive struct {
	segments []models.Segment
}

// NewExhaustive creates an exhaustive ranker over the given segments.
func NewExhaustive(segments []models.Segment) *Exhaustive {
	return &Exhaustive{segments: segments}
}

// Empty reports whether the corpus has no segments.
func (e *Exhaustive) Empty() bool {
	return len(e.segments) == 0
}

// Rank computes cosine similarity against every embedded segment and sorts
// descending. Ties keep corpus insertion order. Segments without a computed
// embedding are skipped, not scored as zero.
func (e *Exhaustive) Rank(_ context.Context, queryVector []float32) ([]models.Segment, error) {
	type scored struct {
		segment    models.Segment
		similarity float64
	}

	candidates := make([]scored, 0, len(e.segments))
	for _, seg := range e.segments {
		if !seg.HasEmbedding() {
			continue
		}
		candidates = append(candidates, scored{
			segment:    seg,
			similarity: CosineSimilarity(queryVector, seg.Embedding),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].similarity > candidates[j].similarity
	})

	ranked := make([]models.Segment, len(candidates))
	for i, c := range candidates {
		ranked[i] = c.segment
	}
	return ranked, nil
}

// Index is an external similarity index that returns its own top-K ordering.
type Index interface {
	Search(ctx context.Context, queryVector []float32, limit int) ([]models.Segment, error)
}

// Delegated hands ranking to an external index and trusts the returned order
// without re-scoring locally.
type Delegated struct {
	index Index
	limit int
}

// NewDelegated creates a delegated ranker that asks the index for at most
// limit results per query.
func NewDelegated(index Index, limit int) *Delegated {
	return &Delegated{index: index, limit: limit}
}

// Empty always reports false: the index is trusted to hold the corpus, and
// enumeration is not part of its contract.
func (d *Delegated) Empty() bool {
	return false
}

// Rank queries the index and returns its ordering untouched.
func (d *Delegated) Rank(ctx context.Context, queryVector []float32) ([]models.Segment, error) {
	results, err := d.index.Search(ctx, queryVector, d.limit)
	if err != nil {
		return nil, fmt.Errorf("delegated similarity search: %w", err)
	}
	return results, nil
}
