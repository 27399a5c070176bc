// Package copilot implements the AI assistant pipeline: it aggregates a
// user's stored financial records, shapes them into a prompt, calls the
// hosted completion service with bounded retry, and persists the
// conversation turns.
package copilot

import (
	"context"
	"strings"

	"github.com/GaneshVarma1/Goodmoney/internal/config"
)

// ChatRequest is one incoming copilot invocation. Context, when present,
// switches the pipeline into summarization mode and skips aggregation.
type ChatRequest struct {
	OwnerID uint
	Message string
	Context string
}

// ChatResult is the terminal success of a copilot invocation.
type ChatResult struct {
	Response string
	Usage    Usage
}

// Service orchestrates the copilot request pipeline.
type Service struct {
	cfg        config.AIConfig
	msgs       MessageStore
	aggregator *Aggregator
	completer  Completer
}

// NewService wires the pipeline. The completer is injected so tests can
// substitute a fake; production passes NewCompletionClient(cfg).
func NewService(cfg config.AIConfig, txs TransactionSource, msgs MessageStore, completer Completer) *Service {
	return &Service{
		cfg:        cfg,
		msgs:       msgs,
		aggregator: NewAggregator(txs, msgs, cfg.ChatHistoryLimit),
		completer:  completer,
	}
}

// Chat runs the full pipeline: validate, persist the user message, build
// the prompt (summary or conversational), complete, persist the reply.
// Persistence is best-effort relative to returning an answer; completion
// errors are the terminal result of the request.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	if s.cfg.APIKey == "" {
		return nil, newError(KindConfig, "completion service credential is not configured, set TOGETHER_API_KEY", nil)
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.OwnerID == 0 {
		return nil, newError(KindInvalidRequest, "user is required", nil)
	}
	if req.Message == "" && req.Context == "" {
		return nil, newError(KindInvalidRequest, "no message or context provided", nil)
	}

	// persist the incoming message first so a log entry exists even if the
	// completion fails afterwards
	if req.Message != "" {
		if err := s.msgs.Append(ctx, req.OwnerID, "user", req.Message); err != nil {
			logger.Error().Err(err).Uint("user_id", req.OwnerID).Msg("save user message failed")
		}
	}

	var prompt string
	if req.Context != "" {
		prompt = BuildSummaryPrompt(req.Context)
	} else {
		fin := s.aggregator.Aggregate(ctx, req.OwnerID)
		prompt = BuildChatPrompt(fin, req.Message)
	}

	completion, err := s.completer.Complete(ctx, SystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	if err := s.msgs.Append(ctx, req.OwnerID, "assistant", completion.Text); err != nil {
		logger.Error().Err(err).Uint("user_id", req.OwnerID).Msg("save assistant message failed")
	}

	return &ChatResult{Response: completion.Text, Usage: completion.Usage}, nil
}

// History returns up to limit prior turns in chronological order.
func (s *Service) History(ctx context.Context, ownerID uint, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.msgs.RecentByOwner(ctx, ownerID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Message, len(rows))
	for i := range rows {
		out[len(rows)-1-i] = rows[i]
	}
	return out, nil
}

// Probe checks the completion credential with a minimal request. Used by
// the connectivity test endpoint.
func (s *Service) Probe(ctx context.Context) (*Completion, error) {
	if s.cfg.APIKey == "" {
		return nil, newError(KindConfig, "completion service credential is not configured, set TOGETHER_API_KEY", nil)
	}
	return s.completer.Complete(ctx, "You are a helpful assistant.",
		"Say 'API connection successful' if you can read this.")
}
