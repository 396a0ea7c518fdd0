// ABOUTME: CLI command to ask a question against the ingested corpus
// ABOUTME: Fetches context, runs the moderated exchange, prints answer and token counts
package commands

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/galaxypedia-wiki/galaxygpt/internal/chat"
	"github.com/galaxypedia-wiki/galaxygpt/internal/models"
)

var (
	askUsername      string
	askContextTokens int
	askOutputTokens  int
	askShowContext   bool
)

// NewAskCmd creates the ask command.
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about Galaxy",
		Long: `Ask a question about Galaxy.

Retrieves relevant Galaxypedia segments for the question and answers it with
the chat model. The question and the generated reply both pass content
moderation.

Examples:
  galaxygpt ask "what is the deity?"
  galaxygpt ask --username smallketchup82 "how much shield does the theia have?"
  galaxygpt ask --context-tokens 2000 "who founded the Galaxypedia?"`,
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().StringVar(&askUsername, "username", "", "Username to address in the response")
	cmd.Flags().IntVar(&askContextTokens, "context-tokens", 0, "Token budget for retrieved context (0 = top segments by count)")
	cmd.Flags().IntVar(&askOutputTokens, "output-tokens", 0, "Maximum reply tokens (0 = provider default)")
	cmd.Flags().BoolVar(&askShowContext, "show-context", false, "Print the retrieved context before the answer")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	p, err := newPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	assembler, err := p.newAssembler()
	if err != nil {
		return err
	}

	limits := p.contextLimits()
	if askContextTokens > 0 {
		limits.MaxTokens = askContextTokens
	}

	ctx := cmd.Context()
	fetched, err := assembler.FetchContext(ctx, args[0], limits)
	if err != nil {
		return err
	}

	if askShowContext {
		fmt.Fprintf(cmd.OutOrStdout(), "--- context (%d tokens) ---\n%s\n---\n", fetched.TokenCount, fetched.Text)
	}

	opts := chat.AskOptions{
		MaxInputTokens: p.cfg.MaxInputTokens,
		Username:       askUsername,
	}
	if askOutputTokens > 0 {
		opts.MaxOutputTokens = &askOutputTokens
	}

	answer, err := p.newOrchestrator(assembler).AnswerQuestion(ctx, args[0], fetched.Text, opts)
	if err != nil {
		if errors.Is(err, models.ErrModeration) {
			return fmt.Errorf("rejected by content moderation: %w", err)
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), answer.Text)
	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "\n(%d answer tokens, %d context tokens)\n", answer.TokenCount, fetched.TokenCount)
	}
	return nil
}
