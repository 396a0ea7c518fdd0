// ABOUTME: Embedding strategies that turn segments into vectors
// ABOUTME: Direct fan-out for small interactive runs, provider-side batching for full corpora
package embedder

import (
	"context"
	"fmt"

	"github.com/galaxypedia-wiki/galaxygpt/internal/models"
)

// Strategy populates embeddings on a set of segments. Implementations return
// a new slice; input segments are not mutated. There is no partial-success
// mode: any failure fails the whole operation.
type Strategy interface {
	Embed(ctx context.Context, segments []models.Segment) ([]models.Segment, error)
}

// checkUniqueKeys rejects segment sets whose display keys collide. Keys are
// the only correlation handle for asynchronous results, so a collision would
// silently assign one vector to two segments.
func checkUniqueKeys(segments []models.Segment) error {
	seen := make(map[string]struct{}, len(segments))
	for _, seg := range segments {
		key := seg.DisplayKey()
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate display key %q", models.ErrCorrelation, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}
