package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatCompletionsStub answers the OpenAI-compatible wire format DeepSeek
// speaks. It counts chat calls so tests can distinguish the validation call
// from generation calls.
func chatCompletionsStub(t *testing.T, status int, reply string, calls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			*calls++
		}
		if status != http.StatusOK {
			http.Error(w, `{"error":{"message":"invalid api key"}}`, status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": reply}},
			},
		})
	}))
}

// ollamaStub serves /api/tags and /api/chat for a single model tag.
func ollamaStub(t *testing.T, model, reply string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]any{{"name": model}},
		})
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"role": "assistant", "content": reply},
		})
	})
	return httptest.NewServer(mux)
}

func TestSelect_RemoteValidationSucceeds(t *testing.T) {
	remote := chatCompletionsStub(t, http.StatusOK, "pong", nil)
	defer remote.Close()

	sel := Select(context.Background(), Options{
		APIKey:  "test-key",
		BaseURL: remote.URL,
	})

	assert.Equal(t, StateRemote, sel.State)

	reply, err := sel.Backend.Chat(context.Background(), "sys", "user", 64)
	require.NoError(t, err)
	assert.Equal(t, "pong", reply)
}

func TestSelect_RemoteInvalidKeyFallsBackToLocal(t *testing.T) {
	remote := chatCompletionsStub(t, http.StatusUnauthorized, "", nil)
	defer remote.Close()
	local := ollamaStub(t, "qwen2.5:1.5b-instruct", "local reply")
	defer local.Close()

	sel := Select(context.Background(), Options{
		APIKey:     "bad-key",
		BaseURL:    remote.URL,
		OllamaHost: local.URL,
	})

	assert.Equal(t, StateLocal, sel.State)

	reply, err := sel.Backend.Chat(context.Background(), "sys", "user", 64)
	require.NoError(t, err)
	assert.Equal(t, "local reply", reply)
}

func TestSelect_MissingKeyFallsBackToLocal(t *testing.T) {
	local := ollamaStub(t, "qwen2.5:1.5b-instruct", "local reply")
	defer local.Close()

	sel := Select(context.Background(), Options{OllamaHost: local.URL})
	assert.Equal(t, StateLocal, sel.State)
}

func TestSelect_BothBackendsFail(t *testing.T) {
	remote := chatCompletionsStub(t, http.StatusUnauthorized, "", nil)
	defer remote.Close()
	local := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer local.Close()

	sel := Select(context.Background(), Options{
		APIKey:     "bad-key",
		BaseURL:    remote.URL,
		OllamaHost: local.URL,
	})

	assert.Equal(t, StateFailed, sel.State)

	_, err := sel.Backend.Chat(context.Background(), "sys", "user", 64)
	assert.True(t, errors.Is(err, ErrBackendUnavailable))
}

func TestDeepSeek_ChatDegradesToDefaultString(t *testing.T) {
	var calls int
	remote := chatCompletionsStub(t, http.StatusOK, "ok", &calls)

	backend, ok := NewDeepSeek(context.Background(), Options{
		APIKey:  "test-key",
		BaseURL: remote.URL,
	})
	require.True(t, ok)
	require.Equal(t, 1, calls, "construction performs exactly one validation call")

	// Kill the server; subsequent calls must degrade, not error.
	remote.Close()

	reply, err := backend.Chat(context.Background(), "sys", "user", 64)
	require.NoError(t, err)
	assert.Equal(t, remoteFallbackReply, reply)
}

func TestNewOllama_ModelNotLoaded(t *testing.T) {
	local := ollamaStub(t, "llama3:8b", "")
	defer local.Close()

	_, err := NewOllama(context.Background(), Options{
		OllamaHost: local.URL,
		LocalModel: "qwen2.5:1.5b-instruct",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not loaded")
}

func TestNewOllama_BareTagMatchesServedModel(t *testing.T) {
	local := ollamaStub(t, "qwen2.5:1.5b-instruct", "hi")
	defer local.Close()

	backend, err := NewOllama(context.Background(), Options{
		OllamaHost: local.URL,
		LocalModel: "qwen2.5",
	})
	require.NoError(t, err)

	reply, err := backend.Chat(context.Background(), "sys", "user", 32)
	require.NoError(t, err)
	assert.Equal(t, "hi", reply)
}
