package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOllamaHost  = "http://localhost:11434"
	defaultOllamaModel = "qwen2.5:1.5b-instruct"
)

// OllamaBackend runs chat against a local Ollama server. The model is
// resolved once at construction; every call reuses the same loaded weights
// on the server side.
type OllamaBackend struct {
	host       string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// NewOllama constructs the local backend. It verifies once that the server
// is reachable and that the configured model tag exists; either failing is a
// model-load failure and returns an error.
func NewOllama(ctx context.Context, opts Options) (*OllamaBackend, error) {
	b := &OllamaBackend{
		host:       opts.OllamaHost,
		model:      opts.LocalModel,
		httpClient: opts.HTTPClient,
		logger:     opts.logger(),
	}
	if b.host == "" {
		b.host = defaultOllamaHost
	}
	if b.model == "" {
		b.model = defaultOllamaModel
	}
	if b.httpClient == nil {
		b.httpClient = &http.Client{Timeout: 5 * time.Minute}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.host+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build model list request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("local model server unreachable at %s: %w", b.host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("local model server returned status %d", resp.StatusCode)
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("failed to decode model list: %w", err)
	}

	for _, m := range tags.Models {
		if m.Name == b.model || strings.SplitN(m.Name, ":", 2)[0] == b.model {
			return b, nil
		}
	}
	return nil, fmt.Errorf("model %q not loaded on local server", b.model)
}

// Chat sends the message pair to the local server and returns the assistant
// text. Unlike the remote variants, call failures are returned as errors.
func (b *OllamaBackend) Chat(ctx context.Context, system, user string, maxTokens int) (string, error) {
	payload := ollamaChatRequest{
		Model: b.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream:  false,
		Options: map[string]any{"num_predict": maxTokens},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("local chat call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("local chat returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var chat ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	return strings.TrimSpace(chat.Message.Content), nil
}
