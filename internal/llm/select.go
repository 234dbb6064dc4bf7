package llm

import (
	"context"
	"log/slog"
	"net/http"
)

// Options configures backend construction. Zero values pick the DeepSeek
// provider and the default hosts/models.
type Options struct {
	// Provider selects the remote variant: ProviderDeepSeek (default) or
	// ProviderGemini.
	Provider string
	// APIKey authenticates against the remote API. Empty means the remote
	// backend is skipped and selection goes straight to the local model.
	APIKey string
	// BaseURL overrides the OpenAI-compatible endpoint (DeepSeek only).
	BaseURL string
	// RemoteModel names the remote model; defaults per provider.
	RemoteModel string
	// OllamaHost is the local model server address.
	OllamaHost string
	// LocalModel is the tag served by the local model server.
	LocalModel string
	// HTTPClient overrides the transport for DeepSeek and Ollama calls.
	HTTPClient *http.Client
	// Logger receives selection and call diagnostics.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Selection is the outcome of the one-time backend choice. Backend is always
// non-nil; in the Failed state every Chat call returns ErrBackendUnavailable.
type Selection struct {
	Backend Backend
	State   State
}

// Close releases backend resources for backends that hold any.
func (s Selection) Close() {
	if closer, ok := s.Backend.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}

// Select runs the construction-time fallback: try the remote backend first,
// fall back to the local model when the remote is unusable, and end in the
// Failed state when both are. The choice is terminal for the lifetime of the
// generator instance holding it; callers wanting a fresh choice construct a
// new instance.
func Select(ctx context.Context, opts Options) Selection {
	logger := opts.logger()

	if remote, ok := newRemote(ctx, opts); ok {
		logger.Info("model backend selected", "state", StateRemote, "provider", remoteProvider(opts))
		return Selection{Backend: remote, State: StateRemote}
	}

	logger.Warn("remote backend unusable, falling back to local model")
	local, err := NewOllama(ctx, opts)
	if err != nil {
		logger.Error("local model backend failed to initialize", "error", err)
		return Selection{Backend: unavailableBackend{}, State: StateFailed}
	}

	logger.Info("model backend selected", "state", StateLocal, "model", local.model)
	return Selection{Backend: local, State: StateLocal}
}

func newRemote(ctx context.Context, opts Options) (Backend, bool) {
	switch opts.Provider {
	case ProviderGemini:
		return NewGemini(ctx, opts)
	default:
		return NewDeepSeek(ctx, opts)
	}
}

func remoteProvider(opts Options) string {
	if opts.Provider == "" {
		return ProviderDeepSeek
	}
	return opts.Provider
}

// unavailableBackend is the terminal Failed state.
type unavailableBackend struct{}

func (unavailableBackend) Chat(context.Context, string, string, int) (string, error) {
	return "", ErrBackendUnavailable
}
