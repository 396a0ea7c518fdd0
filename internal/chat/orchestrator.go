// ABOUTME: Conversational orchestrator: prompt construction, moderation gating, follow-up retrieval
// ABOUTME: Moderation clearance always precedes the completion call; flagged input never reaches the model
package chat

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"slices"
	"strings"

	"github.com/galaxypedia-wiki/galaxygpt/internal/models"
	"github.com/galaxypedia-wiki/galaxygpt/internal/retrieval"
	"github.com/galaxypedia-wiki/galaxygpt/internal/tokenizer"
)

// contextMarker flags a user turn that already carries embedded context, in
// which case retrieval is skipped (matched case-insensitively).
const contextMarker = "context:"

// CompletionProvider generates a reply for a conversation. maxOutputTokens of
// zero leaves the provider's default ceiling in place.
type CompletionProvider interface {
	Complete(ctx context.Context, turns []models.Turn, maxOutputTokens int) (string, error)
}

// ModerationProvider classifies text against content policy.
type ModerationProvider interface {
	Moderate(ctx context.Context, text string) (flagged bool, err error)
}

// ContextFetcher assembles retrieval context for a question.
type ContextFetcher interface {
	FetchContext(ctx context.Context, question string, limits retrieval.Limits) (retrieval.Context, error)
}

// Deps wires an Orchestrator. Moderations may only be nil when
// AllowUnmoderated is set; that configuration logs a warning on every exchange
// instead of silently skipping the check.
type Deps struct {
	Completions      CompletionProvider
	Moderations      ModerationProvider
	Contexts         ContextFetcher
	Tokenizer        tokenizer.Counter
	AllowUnmoderated bool
}

// Orchestrator runs single-turn and multi-turn exchanges. It holds no state
// between calls; conversations live with the caller.
type Orchestrator struct {
	completions      CompletionProvider
	moderations      ModerationProvider
	contexts         ContextFetcher
	tok              tokenizer.Counter
	allowUnmoderated bool
}

// New creates an Orchestrator from its collaborators.
func New(deps Deps) *Orchestrator {
	return &Orchestrator{
		completions:      deps.Completions,
		moderations:      deps.Moderations,
		contexts:         deps.Contexts,
		tok:              deps.Tokenizer,
		allowUnmoderated: deps.AllowUnmoderated,
	}
}

// AskOptions configures a single-turn exchange.
type AskOptions struct {
	// MaxInputTokens rejects over-long questions when positive.
	MaxInputTokens int
	// MaxOutputTokens caps the reply when set. An explicit zero is rejected:
	// it could never produce output.
	MaxOutputTokens *int
	// Username is an optional speaker tag, sanitized before use.
	Username string
}

// Answer is a single-turn reply with its token count.
type Answer struct {
	Text       string
	TokenCount int
}

// speakerTagPattern strips a speaker tag down to characters that cannot
// corrupt the request wire format.
var speakerTagPattern = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SanitizeSpeakerTag reduces a speaker tag to its alphanumeric/hyphen/
// underscore subset.
func SanitizeSpeakerTag(tag string) string {
	return speakerTagPattern.ReplaceAllString(tag, "")
}

// AnswerQuestion answers a question against pre-assembled context. The
// question's moderation runs concurrently with prompt construction, but its
// verdict is always awaited before the completion provider is invoked, so a
// flagged question costs no completion call. The generated reply is moderated
// as well.
func (o *Orchestrator) AnswerQuestion(ctx context.Context, question, contextText string, opts AskOptions) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, fmt.Errorf("%w: the question cannot be empty", models.ErrValidation)
	}
	if opts.MaxOutputTokens != nil && *opts.MaxOutputTokens == 0 {
		return Answer{}, fmt.Errorf("%w: an output ceiling of zero can never produce output", models.ErrValidation)
	}
	if opts.MaxInputTokens > 0 && o.tok.CountTokens(question) > opts.MaxInputTokens {
		return Answer{}, fmt.Errorf("%w: the question is too long to be answered", models.ErrValidation)
	}
	if err := o.checkModerationConfigured(); err != nil {
		return Answer{}, err
	}

	verdict := o.classifyAsync(ctx, question)

	turns := buildAnswerTurns(question, contextText, SanitizeSpeakerTag(opts.Username))

	res := <-verdict
	if res.err != nil {
		return Answer{}, res.err
	}
	if res.flagged {
		return Answer{}, fmt.Errorf("%w: the question was rejected", models.ErrModeration)
	}

	maxOut := 0
	if opts.MaxOutputTokens != nil {
		maxOut = *opts.MaxOutputTokens
	}
	reply, err := o.completions.Complete(ctx, turns, maxOut)
	if err != nil {
		return Answer{}, err
	}

	flagged, err := o.classify(ctx, reply)
	if err != nil {
		return Answer{}, err
	}
	if flagged {
		// Generation already happened; the rejection is surfaced, not
		// swallowed.
		return Answer{}, fmt.Errorf("%w: the generated reply was rejected", models.ErrModeration)
	}

	return Answer{Text: reply, TokenCount: o.tok.CountTokens(reply)}, nil
}

// FollowUpOptions configures a multi-turn exchange.
type FollowUpOptions struct {
	MaxInputTokens  int
	MaxOutputTokens int
	ContextLimits   retrieval.Limits
}

// FollowUp continues a conversation. The most recent user turn is the new
// question. When its text does not already carry the context marker, fresh
// context is retrieved and the turn is rewritten to embed it; otherwise
// retrieval is skipped entirely.
//
// Moderation policy: only the newest user turn is moderated (plus the
// generated reply). Earlier turns were cleared when they were first submitted.
//
// The input conversation is never mutated; the full updated conversation is
// returned as a new slice.
func (o *Orchestrator) FollowUp(ctx context.Context, conversation []models.Turn, opts FollowUpOptions) ([]models.Turn, error) {
	out := slices.Clone(conversation)

	idx := models.LastUserTurn(out)
	if idx < 0 {
		return nil, fmt.Errorf("%w: the conversation has no user turn to answer", models.ErrValidation)
	}
	question := strings.TrimSpace(out[idx].Content)
	if question == "" {
		return nil, fmt.Errorf("%w: the question cannot be empty", models.ErrValidation)
	}
	if opts.MaxInputTokens > 0 && o.tok.CountTokens(question) > opts.MaxInputTokens {
		return nil, fmt.Errorf("%w: the question is too long to be answered", models.ErrValidation)
	}
	if err := o.checkModerationConfigured(); err != nil {
		return nil, err
	}

	flagged, err := o.classify(ctx, question)
	if err != nil {
		return nil, err
	}
	if flagged {
		return nil, fmt.Errorf("%w: the question was rejected", models.ErrModeration)
	}

	if !strings.Contains(strings.ToLower(question), contextMarker) {
		fetched, err := o.contexts.FetchContext(ctx, question, opts.ContextLimits)
		if err != nil {
			return nil, err
		}
		out = slices.Delete(out, idx, idx+1)
		out = append(out, models.UserTurn(fmt.Sprintf("Question: %s\n\nInformation:\n%s", question, fetched.Text), ""))
	}

	// Always insert at position 0, even if a system turn already exists from
	// a previous call; duplicates are tolerated, not deduplicated.
	out = slices.Insert(out, 0, models.SystemTurn(followUpSystemPrompt))

	reply, err := o.completions.Complete(ctx, out, opts.MaxOutputTokens)
	if err != nil {
		return nil, err
	}

	flagged, err = o.classify(ctx, reply)
	if err != nil {
		return nil, err
	}
	if flagged {
		return nil, fmt.Errorf("%w: the generated reply was rejected", models.ErrModeration)
	}

	return append(out, models.AssistantTurn(reply)), nil
}

// buildAnswerTurns constructs the single-turn prompt. speakerTag must already
// be sanitized.
func buildAnswerTurns(question, contextText, speakerTag string) []models.Turn {
	username := speakerTag
	if username == "" {
		username = "N/A"
	}
	user := models.UserTurn(
		fmt.Sprintf("Information:\n%s\n\n---\n\nQuestion: %s\nUsername: %s", strings.TrimSpace(contextText), question, username),
		speakerTag,
	)
	return []models.Turn{models.SystemTurn(answerSystemPrompt), user}
}

func (o *Orchestrator) checkModerationConfigured() error {
	if o.moderations == nil && !o.allowUnmoderated {
		return fmt.Errorf("%w: no moderation provider configured", models.ErrPrecondition)
	}
	return nil
}

// classify moderates text, tolerating an absent provider only in the
// explicitly unmoderated configuration.
func (o *Orchestrator) classify(ctx context.Context, text string) (bool, error) {
	if o.moderations == nil {
		log.Printf("Warning: no moderation provider configured; skipping moderation check")
		return false, nil
	}
	return o.moderations.Moderate(ctx, text)
}

type verdict struct {
	flagged bool
	err     error
}

// classifyAsync starts moderation so it can overlap prompt construction. The
// result channel is buffered; the goroutine never leaks.
func (o *Orchestrator) classifyAsync(ctx context.Context, text string) <-chan verdict {
	ch := make(chan verdict, 1)
	go func() {
		flagged, err := o.classify(ctx, text)
		ch <- verdict{flagged: flagged, err: err}
	}()
	return ch
}
