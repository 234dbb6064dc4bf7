package llm

import (
	"context"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultDeepSeekBaseURL = "https://api.deepseek.com/v1"
	defaultDeepSeekModel   = "deepseek-chat"

	// remoteFallbackReply is returned by remote Chat when the API call
	// fails. Remote call failures degrade per call, they never propagate.
	remoteFallbackReply = "Content generation is temporarily unavailable."
)

// DeepSeekBackend wraps the DeepSeek chat-completion API, which speaks the
// OpenAI wire format.
type DeepSeekBackend struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewDeepSeek constructs a remote backend and validates the API key with one
// tiny chat call. A missing key, auth error, or network error reports the
// backend unusable (ok == false) rather than failing, so the caller can fall
// back to the local model.
func NewDeepSeek(ctx context.Context, opts Options) (*DeepSeekBackend, bool) {
	logger := opts.logger()
	if opts.APIKey == "" {
		logger.Warn("no remote API key configured")
		return nil, false
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = opts.BaseURL
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultDeepSeekBaseURL
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}

	b := &DeepSeekBackend{
		client: openai.NewClientWithConfig(cfg),
		model:  opts.RemoteModel,
		logger: logger,
	}
	if b.model == "" {
		b.model = defaultDeepSeekModel
	}

	_, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     b.model,
		MaxTokens: 5,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "Hello"},
		},
	})
	if err != nil {
		logger.Warn("remote API key validation failed", "error", err)
		return nil, false
	}
	return b, true
}

// Chat sends the message pair to the remote API. Call failures log and
// return a bounded default string; Chat never returns an error.
func (b *DeepSeekBackend) Chat(ctx context.Context, system, user string, maxTokens int) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     b.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		b.logger.Warn("remote chat call failed", "model", b.model, "error", err)
		return remoteFallbackReply, nil
	}
	if len(resp.Choices) == 0 {
		b.logger.Warn("remote chat returned no choices", "model", b.model)
		return remoteFallbackReply, nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
