package llm

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiBackend is the alternative remote backend, wrapping Google Gemini.
type GeminiBackend struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGemini constructs a Gemini backend and validates the API key with a
// token-count call, the cheapest request the API offers. Validation failure
// reports the backend unusable rather than failing.
func NewGemini(ctx context.Context, opts Options) (*GeminiBackend, bool) {
	logger := opts.logger()
	if opts.APIKey == "" {
		logger.Warn("no remote API key configured")
		return nil, false
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		logger.Warn("failed to create Gemini client", "error", err)
		return nil, false
	}

	b := &GeminiBackend{client: client, model: opts.RemoteModel, logger: logger}
	if b.model == "" {
		b.model = defaultGeminiModel
	}

	if _, err := client.GenerativeModel(b.model).CountTokens(ctx, genai.Text("Hello")); err != nil {
		logger.Warn("remote API key validation failed", "error", err)
		_ = client.Close()
		return nil, false
	}
	return b, true
}

// Chat sends the message pair to Gemini. Like the DeepSeek variant, call
// failures degrade to a bounded default string and never return an error.
func (b *GeminiBackend) Chat(ctx context.Context, system, user string, maxTokens int) (string, error) {
	model := b.client.GenerativeModel(b.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	model.SetMaxOutputTokens(int32(maxTokens))

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		b.logger.Warn("remote chat call failed", "model", b.model, "error", err)
		return remoteFallbackReply, nil
	}

	text := extractText(resp)
	if text == "" {
		b.logger.Warn("remote chat returned no text", "model", b.model)
		return remoteFallbackReply, nil
	}
	return text, nil
}

// Close releases the underlying client connection.
func (b *GeminiBackend) Close() error {
	return b.client.Close()
}

func extractText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}
