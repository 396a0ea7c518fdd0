// ABOUTME: OpenAI adapter for embeddings, chat completions, moderation, and the Batch API
// ABOUTME: The single provider edge; retries live here, never in the pipeline components
package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/galaxypedia-wiki/galaxygpt/internal/models"
	"github.com/galaxypedia-wiki/galaxygpt/internal/util"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = string(openai.SmallEmbedding3)
	// DefaultModerationModel is the default model for content moderation
	DefaultModerationModel = "omni-moderation-latest"
	// BatchCompletionWindow is the completion window declared on batch jobs
	BatchCompletionWindow = "24h"
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey          string
	ChatModel       string
	EmbeddingModel  string
	ModerationModel string
	MaxRetries      int
	RetryDelay      time.Duration
	Timeout         time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:          apiKey,
		ChatModel:       DefaultChatModel,
		EmbeddingModel:  DefaultEmbeddingModel,
		ModerationModel: DefaultModerationModel,
		MaxRetries:      3,
		RetryDelay:      2 * time.Second,
		Timeout:         30 * time.Second,
	}
}

// Client wraps the OpenAI API client with retry logic for the transient
// single-call paths. Batch primitives are not retried; the poll loop that
// drives them recovers from transient reads by polling again.
type Client struct {
	client          *openai.Client
	chatModel       string
	embeddingModel  string
	moderationModel string
	maxRetries      int
	retryDelay      time.Duration
	timeout         time.Duration
}

// NewClient creates an OpenAI client with default configuration.
func NewClient(apiKey string) (*Client, error) {
	return NewClientWithConfig(DefaultConfig(apiKey))
}

// NewClientWithConfig creates an OpenAI client with custom configuration.
func NewClientWithConfig(config *ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required", models.ErrPrecondition)
	}

	return &Client{
		client:          openai.NewClient(config.APIKey),
		chatModel:       config.ChatModel,
		embeddingModel:  config.EmbeddingModel,
		moderationModel: config.ModerationModel,
		maxRetries:      config.MaxRetries,
		retryDelay:      config.RetryDelay,
		timeout:         config.Timeout,
	}, nil
}

// EmbeddingModel returns the configured embedding model id.
func (c *Client) EmbeddingModel() string {
	return c.embeddingModel
}

// EmbedText generates an embedding vector for a single text.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, util.Backoff(c.retryDelay, attempt)); err != nil {
				return nil, err
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.CreateEmbeddings(callCtx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: openai.EmbeddingModel(c.embeddingModel),
		})
		cancel()

		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Data) == 0 {
			lastErr = fmt.Errorf("no embeddings returned")
			continue
		}
		return resp.Data[0].Embedding, nil
	}

	return nil, fmt.Errorf("%w: embedding after %d attempts: %w", models.ErrProvider, c.maxRetries+1, lastErr)
}

// Complete sends the conversation to the chat model and returns the reply
// text. maxOutputTokens of zero leaves the provider's default in place.
func (c *Client) Complete(ctx context.Context, turns []models.Turn, maxOutputTokens int) (string, error) {
	messages := make([]openai.ChatCompletionMessage, len(turns))
	for i, turn := range turns {
		messages[i] = openai.ChatCompletionMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
			Name:    turn.Name,
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, util.Backoff(c.retryDelay, attempt)); err != nil {
				return "", err
			}
		}

		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:     c.chatModel,
			Messages:  messages,
			MaxTokens: maxOutputTokens,
		})
		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("no completion choices returned")
			continue
		}
		return resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("%w: chat completion after %d attempts: %w", models.ErrProvider, c.maxRetries+1, lastErr)
}

// Moderate classifies text with the moderation model and reports whether it
// was flagged.
func (c *Client) Moderate(ctx context.Context, text string) (bool, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, util.Backoff(c.retryDelay, attempt)); err != nil {
				return false, err
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.Moderations(callCtx, openai.ModerationRequest{
			Input: text,
			Model: c.moderationModel,
		})
		cancel()

		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Results) == 0 {
			lastErr = fmt.Errorf("no moderation results returned")
			continue
		}
		return resp.Results[0].Flagged, nil
	}

	return false, fmt.Errorf("%w: moderation after %d attempts: %w", models.ErrProvider, c.maxRetries+1, lastErr)
}

// UploadBatchInput uploads a batch request document and returns its file id.
func (c *Client) UploadBatchInput(ctx context.Context, name string, data []byte) (string, error) {
	file, err := c.client.CreateFileBytes(ctx, openai.FileBytesRequest{
		Name:    name,
		Bytes:   data,
		Purpose: openai.PurposeBatch,
	})
	if err != nil {
		return "", fmt.Errorf("%w: uploading batch input: %w", models.ErrProvider, err)
	}
	return file.ID, nil
}

// CreateEmbeddingBatch submits a batch job against the embeddings endpoint for
// a previously uploaded input file.
func (c *Client) CreateEmbeddingBatch(ctx context.Context, inputFileID string) (models.BatchJob, error) {
	resp, err := c.client.CreateBatch(ctx, openai.CreateBatchRequest{
		InputFileID:      inputFileID,
		Endpoint:         openai.BatchEndpointEmbeddings,
		CompletionWindow: BatchCompletionWindow,
	})
	if err != nil {
		return models.BatchJob{}, fmt.Errorf("%w: creating batch: %w", models.ErrProvider, err)
	}
	return batchJobFromResponse(resp.Batch), nil
}

// GetEmbeddingBatch reads the current status of a batch job.
func (c *Client) GetEmbeddingBatch(ctx context.Context, id string) (models.BatchJob, error) {
	resp, err := c.client.RetrieveBatch(ctx, id)
	if err != nil {
		return models.BatchJob{}, fmt.Errorf("%w: retrieving batch %s: %w", models.ErrProvider, id, err)
	}
	return batchJobFromResponse(resp.Batch), nil
}

// DownloadFile fetches the content of a provider-side file.
func (c *Client) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	content, err := c.client.GetFileContent(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("%w: downloading file %s: %w", models.ErrProvider, fileID, err)
	}
	defer content.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, content); err != nil {
		return nil, fmt.Errorf("%w: reading file %s: %w", models.ErrProvider, fileID, err)
	}
	return buf.Bytes(), nil
}

func batchJobFromResponse(batch openai.Batch) models.BatchJob {
	job := models.BatchJob{
		ID:        batch.ID,
		Status:    models.BatchStatus(batch.Status),
		Total:     batch.RequestCounts.Total,
		Completed: batch.RequestCounts.Completed,
	}
	if batch.OutputFileID != nil {
		job.OutputFileID = *batch.OutputFileID
	}
	return job
}

// sleepCtx waits for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
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
