// ABOUTME: CLI command to ingest a directory of wiki pages into the corpus
// ABOUTME: Chunks each page, embeds the segments, and persists them to SQLite
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/galaxypedia-wiki/galaxygpt/internal/chunker"
	"github.com/galaxypedia-wiki/galaxygpt/internal/embedder"
	"github.com/galaxypedia-wiki/galaxygpt/internal/models"
)

var (
	ingestBatch  bool
	ingestDryRun bool
)

// NewIngestCmd creates the ingest command.
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <directory>",
		Short: "Ingest wiki pages into the corpus",
		Long: `Ingest wiki pages into the corpus.

Reads every .txt and .md file under the given directory as one page (the
filename without extension is the page title), splits pages that exceed the
chunk token budget, embeds every segment, and stores the result in the
corpus database.

By default segments are embedded with direct API calls. With --batch the
segments are submitted as a single batch job instead, which is cheaper but
can take up to the batch deadline to complete.

Examples:
  galaxygpt ingest ./pages
  galaxygpt ingest --batch ./pages
  galaxygpt ingest --dry-run ./pages`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().BoolVar(&ingestBatch, "batch", false, "Embed with a batch job instead of direct API calls")
	cmd.Flags().BoolVar(&ingestDryRun, "dry-run", false, "Chunk and report without embedding or storing")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	p, err := newPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	pages, err := readPages(args[0])
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("no .txt or .md pages found under %s", args[0])
	}

	var allSegments []models.Segment
	pageSegments := make(map[string][]models.Segment, len(pages))
	for _, page := range pages {
		segments, err := chunker.SplitPage(page, p.embTok, p.cfg.MaxChunkTokens)
		if err != nil {
			return fmt.Errorf("chunking %q: %w", page.Title, err)
		}
		pageSegments[page.Title] = segments
		allSegments = append(allSegments, segments...)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Read %d pages, %d segments\n", len(pages), len(allSegments))
	}
	if ingestDryRun {
		for _, page := range pages {
			for _, seg := range pageSegments[page.Title] {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d tokens\n", seg.DisplayKey(), seg.TokenCount)
			}
		}
		return nil
	}

	strategy := p.newEmbedStrategy(cmd, ingestBatch)
	embedded, err := strategy.Embed(cmd.Context(), allSegments)
	if err != nil {
		return fmt.Errorf("embedding segments: %w", err)
	}

	// Regroup embedded segments by page for transactional storage
	byPage := make(map[string][]models.Segment, len(pages))
	for _, seg := range embedded {
		byPage[seg.PageTitle] = append(byPage[seg.PageTitle], seg)
	}
	for _, page := range pages {
		if err := p.db.ReplacePage(page, byPage[page.Title]); err != nil {
			return fmt.Errorf("storing %q: %w", page.Title, err)
		}
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d segments across %d pages\n", len(embedded), len(pages))
	}
	return nil
}

// readPages collects every .txt/.md file under dir as a page. The page title
// is the filename without its extension.
func readPages(dir string) ([]models.Page, error) {
	var pages []models.Page
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".txt" && ext != ".md" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		title := strings.TrimSuffix(filepath.Base(path), ext)
		pages = append(pages, models.Page{Title: title, Content: string(data)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading pages from %s: %w", dir, err)
	}
	return pages, nil
}

// newEmbedStrategy picks direct or batch embedding based on the flag.
func (p *pipeline) newEmbedStrategy(cmd *cobra.Command, batch bool) embedder.Strategy {
	if !batch {
		return embedder.NewDirect(p.client, p.cfg.EmbedConcurrency)
	}
	opts := embedder.BatchOptions{
		InitialDelay: p.cfg.BatchInitialDelay,
		PollInterval: p.cfg.BatchPollInterval,
		Deadline:     p.cfg.BatchDeadline,
	}
	if !quiet {
		opts.Progress = func(completed, total int) {
			fmt.Fprintf(cmd.OutOrStdout(), "Batch progress: %d/%d\n", completed, total)
		}
	}
	return embedder.NewBatch(p.client, p.cfg.EmbeddingModel, opts)
}
