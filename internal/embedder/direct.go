// ABOUTME: Direct embedding strategy with a bounded worker pool
// ABOUTME: One provider call per segment, reassembled by position, first error fatal
package embedder

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/galaxypedia-wiki/galaxygpt/internal/models"
)

// DefaultConcurrency bounds the direct fan-out so a large segment set cannot
// blow through the provider's requests-per-minute limit.
const DefaultConcurrency = 8

// Provider is the single-text embedding contract the direct strategy needs.
type Provider interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Direct embeds each segment with its own provider call. It trades cost for
// immediacy and suits small, interactive corpus updates.
type Direct struct {
	provider    Provider
	concurrency int
}

// NewDirect creates a direct strategy. concurrency <= 0 selects the default.
func NewDirect(provider Provider, concurrency int) *Direct {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Direct{provider: provider, concurrency: concurrency}
}

// Embed fans out one call per segment, at most d.concurrency in flight.
// Results are written back by index, so no ordering guarantee is needed from
// the provider. A single failed call fails the whole run.
func (d *Direct) Embed(ctx context.Context, segments []models.Segment) ([]models.Segment, error) {
	if err := checkUniqueKeys(segments); err != nil {
		return nil, err
	}

	out := make([]models.Segment, len(segments))
	copy(out, segments)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for i := range out {
		g.Go(func() error {
			vector, err := d.provider.EmbedText(gctx, out[i].Content)
			if err != nil {
				return fmt.Errorf("embedding %q: %w", out[i].DisplayKey(), err)
			}
			out[i].Embedding = vector
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
