// Package llm provides the model backends used for letter and subject
// generation: a remote chat-completion API (DeepSeek or Gemini) with a local
// Ollama model as fallback. The backend is selected once per generator
// instance; see Select.
package llm

import (
	"context"
	"errors"
)

// ErrBackendUnavailable is returned by Chat when no usable backend exists.
var ErrBackendUnavailable = errors.New("no usable model backend")

// Backend is the single operation every model variant exposes.
type Backend interface {
	// Chat sends one system/user message pair and returns the raw
	// assistant text. maxTokens bounds the generated output.
	Chat(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// State records the outcome of backend selection.
type State string

// Selection states. Remote and Local are terminal for the lifetime of the
// generator instance that performed the selection.
const (
	StateUninitialized State = "uninitialized"
	StateRemote        State = "remote"
	StateLocal         State = "local"
	StateFailed        State = "failed"
)

// Provider names for the remote backend.
const (
	ProviderDeepSeek = "deepseek"
	ProviderGemini   = "gemini"
)
