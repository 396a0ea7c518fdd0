// ABOUTME: Batch embedding strategy over the provider's asynchronous Batch API
// ABOUTME: JSONL submit, poll with deadline and terminal-status handling, keyed result join
package embedder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/galaxypedia-wiki/galaxygpt/internal/models"
)

// BatchProvider is the batch-lifecycle contract: upload the request document,
// submit the job, read its status, download the output.
type BatchProvider interface {
	UploadBatchInput(ctx context.Context, name string, data []byte) (string, error)
	CreateEmbeddingBatch(ctx context.Context, inputFileID string) (models.BatchJob, error)
	GetEmbeddingBatch(ctx context.Context, id string) (models.BatchJob, error)
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

// BatchOptions tunes the poll loop.
type BatchOptions struct {
	// InitialDelay is the grace period before the first status read, giving
	// the provider time to register the job.
	InitialDelay time.Duration
	// PollInterval is the fixed sleep between status reads.
	PollInterval time.Duration
	// Deadline bounds the whole poll loop. Zero means poll until the context
	// is cancelled.
	Deadline time.Duration
	// Progress, when set, is called after each status read with completed and
	// total request counts.
	Progress func(completed, total int)
}

// DefaultBatchOptions returns the poll tuning used in production.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		InitialDelay: 3 * time.Second,
		PollInterval: 10 * time.Second,
		Deadline:     2 * time.Hour,
	}
}

// Batch embeds a segment set through one provider-side batch job. It trades
// latency for cost: the job can take minutes, but large corpora embed at the
// discounted batch rate.
type Batch struct {
	provider BatchProvider
	model    string
	opts     BatchOptions
}

// NewBatch creates a batch strategy for the given embedding model.
func NewBatch(provider BatchProvider, model string, opts BatchOptions) *Batch {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultBatchOptions().PollInterval
	}
	return &Batch{provider: provider, model: model, opts: opts}
}

// batchRequest is one JSONL line of the batch input document.
type batchRequest struct {
	CustomID string           `json:"custom_id"`
	Method   string           `json:"method"`
	URL      string           `json:"url"`
	Body     batchRequestBody `json:"body"`
}

type batchRequestBody struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

// batchOutputLine is one JSONL line of the batch output document. Only the
// custom id and the embedding payload matter; the input text is not echoed
// back, which is why a missing key is unrecoverable.
type batchOutputLine struct {
	CustomID string `json:"custom_id"`
	Response struct {
		Body struct {
			Data []struct {
				Embedding []float32 `json:"embedding"`
			} `json:"data"`
		} `json:"body"`
	} `json:"response"`
}

// Embed runs the full submit/poll/collect lifecycle and joins the output back
// onto the input segments by display key. The join is all-or-nothing: any
// missing key fails the whole job with no partial results.
func (b *Batch) Embed(ctx context.Context, segments []models.Segment) ([]models.Segment, error) {
	if len(segments) == 0 {
		return nil, nil
	}
	if err := checkUniqueKeys(segments); err != nil {
		return nil, err
	}

	document, err := b.buildRequestDocument(ctx, segments)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("batch-requests-%s.jsonl", uuid.New().String()[:8])
	fileID, err := b.provider.UploadBatchInput(ctx, name, document)
	if err != nil {
		return nil, err
	}

	job, err := b.provider.CreateEmbeddingBatch(ctx, fileID)
	if err != nil {
		return nil, err
	}

	job, err = b.waitForCompletion(ctx, job.ID)
	if err != nil {
		return nil, err
	}

	output, err := b.provider.DownloadFile(ctx, job.OutputFileID)
	if err != nil {
		return nil, err
	}

	vectors, err := parseOutputDocument(output)
	if err != nil {
		return nil, err
	}
	return joinResults(segments, vectors)
}

// buildRequestDocument serializes each segment as one JSONL line. Lines are
// built concurrently; their order is irrelevant because correlation is by
// custom_id.
func (b *Batch) buildRequestDocument(ctx context.Context, segments []models.Segment) ([]byte, error) {
	lines := make([]string, len(segments))

	g, _ := errgroup.WithContext(ctx)
	for i := range segments {
		g.Go(func() error {
			line, err := json.Marshal(batchRequest{
				CustomID: segments[i].DisplayKey(),
				Method:   "POST",
				URL:      "/v1/embeddings",
				Body: batchRequestBody{
					Input: segments[i].Content,
					Model: b.model,
				},
			})
			if err != nil {
				return fmt.Errorf("serializing request for %q: %w", segments[i].DisplayKey(), err)
			}
			lines[i] = string(line)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return []byte(strings.Join(lines, "\n")), nil
}

// waitForCompletion polls the job until it completes, fails terminally, hits
// the configured deadline, or the context is cancelled. Transient read errors
// are absorbed by polling again; the deadline bounds how long that can go on.
func (b *Batch) waitForCompletion(ctx context.Context, jobID string) (models.BatchJob, error) {
	if b.opts.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.opts.Deadline)
		defer cancel()
	}

	if err := sleepCtx(ctx, b.opts.InitialDelay); err != nil {
		return models.BatchJob{}, deadlineErr(jobID, err)
	}

	for {
		job, err := b.provider.GetEmbeddingBatch(ctx, jobID)
		switch {
		case err != nil && ctx.Err() != nil:
			return models.BatchJob{}, deadlineErr(jobID, ctx.Err())
		case err != nil:
			// Transient status read failure; the next poll retries it.
		case job.Terminal():
			return models.BatchJob{}, fmt.Errorf("%w: job %s reported status %q", models.ErrBatchJobFailed, jobID, job.Status)
		case job.Done():
			if job.OutputFileID == "" {
				return models.BatchJob{}, fmt.Errorf("%w: job %s completed without an output file", models.ErrBatchJobFailed, jobID)
			}
			return job, nil
		default:
			if b.opts.Progress != nil {
				b.opts.Progress(job.Completed, job.Total)
			}
		}

		if err := sleepCtx(ctx, b.opts.PollInterval); err != nil {
			return models.BatchJob{}, deadlineErr(jobID, err)
		}
	}
}

func deadlineErr(jobID string, cause error) error {
	if cause == context.DeadlineExceeded {
		return fmt.Errorf("%w: job %s", models.ErrBatchDeadline, jobID)
	}
	return cause
}

// parseOutputDocument builds the typed custom_id -> vector map from the
// downloaded JSONL output.
func parseOutputDocument(output []byte) (map[string][]float32, error) {
	vectors := make(map[string][]float32)

	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var parsed batchOutputLine
		if err := json.Unmarshal([]byte(line), &parsed); err != nil {
			return nil, fmt.Errorf("%w: parsing output line: %w", models.ErrCorrelation, err)
		}
		if parsed.CustomID == "" || len(parsed.Response.Body.Data) == 0 {
			return nil, fmt.Errorf("%w: output line missing custom_id or embedding data", models.ErrCorrelation)
		}
		vectors[parsed.CustomID] = parsed.Response.Body.Data[0].Embedding
	}

	return vectors, nil
}

// joinResults pairs each input segment with the vector whose custom_id matched
// its display key. Validated all-or-nothing before anything is returned.
func joinResults(segments []models.Segment, vectors map[string][]float32) ([]models.Segment, error) {
	out := make([]models.Segment, len(segments))
	copy(out, segments)

	for i := range out {
		key := out[i].DisplayKey()
		vector, ok := vectors[key]
		if !ok {
			return nil, fmt.Errorf("%w: no result for display key %q", models.ErrCorrelation, key)
		}
		out[i].Embedding = vector
	}
	return out, nil
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
