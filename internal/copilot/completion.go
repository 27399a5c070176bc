package copilot

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/GaneshVarma1/Goodmoney/internal/config"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Usage is the token accounting reported by the completion service.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is one successful exchange with the language model.
type Completion struct {
	Text  string
	Usage Usage
}

// Completer issues a single chat completion.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (*Completion, error)
}

// CompletionClient talks to the hosted completion endpoint (Together AI,
// OpenAI-compatible) with bounded retry on transient failure.
type CompletionClient struct {
	client *openai.Client
	cfg    config.AIConfig
	policy RetryPolicy
}

// NewCompletionClient builds a client from the AI config section.
func NewCompletionClient(cfg config.AIConfig) *CompletionClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	baseDelay := time.Duration(cfg.RetryBaseMs) * time.Millisecond
	if baseDelay <= 0 {
		baseDelay = time.Second
	}

	return &CompletionClient{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		policy: RetryPolicy{MaxRetries: maxRetries, BaseDelay: baseDelay},
	}
}

// Complete sends one chat-completion request, retrying on 429/500/503 and
// transport errors. A 401 fails immediately; other 4xx are never retried.
func (c *CompletionClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (*Completion, error) {
	var out *Completion

	err := retryWithBackoff(ctx, c.policy, retryableStatus, func(ctx context.Context) error {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.cfg.Model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
			Temperature: c.cfg.Temperature,
			MaxTokens:   c.cfg.MaxTokens,
			TopP:        c.cfg.TopP,
		})
		if err != nil {
			logger.Error().Err(err).Int("status", statusOf(err)).Msg("completion request failed")
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("completion returned no choices")
		}
		out = &Completion{
			Text: resp.Choices[0].Message.Content,
			Usage: Usage{
				PromptTokens:     resp.Usage.PromptTokens,
				CompletionTokens: resp.Usage.CompletionTokens,
				TotalTokens:      resp.Usage.TotalTokens,
			},
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// statusOf extracts the upstream HTTP status from a go-openai error,
// or 0 for transport-level failures.
func statusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func retryableStatus(err error) bool {
	switch statusOf(err) {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable:
		return true
	case 0:
		// transport failure, same bounded retry as 5xx
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	default:
		return false
	}
}

func classify(err error) error {
	switch statusOf(err) {
	case http.StatusUnauthorized:
		return newError(KindAuth, "completion credential rejected", err)
	case http.StatusTooManyRequests:
		return newError(KindRateLimited, "completion service rate limit exceeded", err)
	default:
		return newError(KindService, "completion service unavailable", err)
	}
}
