package advisor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompatServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *OpenAICompatProvider) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewOpenAICompatProvider(OpenAICompatConfig{
		Name:    "openai",
		BaseURL: srv.URL,
		Model:   "gpt-3.5-turbo",
		APIKey:  "test-key",
	})
	require.NoError(t, err)
	return srv, p
}

func TestOpenAICompatComplete(t *testing.T) {
	var captured oaiRequest
	_, p := newCompatServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "A P/E ratio divides price by earnings."}},
			},
		})
	})

	resp, err := p.Complete(context.Background(), Request{
		System: "persona",
		Messages: []ChatMessage{
			{Role: ChatRoleUser, Content: "What is a P/E ratio?"},
		},
		MaxTokens:   1024,
		Temperature: 0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, "A P/E ratio divides price by earnings.", resp.Text)

	// System prompt becomes the leading system message.
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, ChatRoleSystem, captured.Messages[0].Role)
	assert.Equal(t, "persona", captured.Messages[0].Content)
	assert.Equal(t, ChatRoleUser, captured.Messages[1].Role)
	assert.Equal(t, "gpt-3.5-turbo", captured.Model)
}

func TestOpenAICompatNonSuccessStatus(t *testing.T) {
	_, p := newCompatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limit exceeded"},
		})
	})

	_, err := p.Complete(context.Background(), Request{Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hi"}}})
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "openai", provErr.Provider)
	assert.Contains(t, provErr.Error(), "rate limit exceeded")
	assert.Contains(t, provErr.Error(), "429")
}

func TestOpenAICompatEmptyResponse(t *testing.T) {
	_, p := newCompatServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := p.Complete(context.Background(), Request{Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hi"}}})
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Contains(t, provErr.Error(), "empty response")
}

func TestOpenAICompatTransportFailure(t *testing.T) {
	srv, p := newCompatServer(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := p.Complete(context.Background(), Request{Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hi"}}})
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "openai", provErr.Provider)
}

func TestProviderConstructorsRequireKey(t *testing.T) {
	_, err := NewOpenAIProvider("", "", "")
	assert.Error(t, err)

	_, err = NewGroqProvider("   ", "", "")
	assert.Error(t, err)
}

func TestGroqProviderDefaults(t *testing.T) {
	p, err := NewGroqProvider("key", "", "")
	require.NoError(t, err)
	assert.Equal(t, "groq", p.Name())
	assert.Equal(t, "mixtral-8x7b-32768", p.cfg.Model)
	assert.Equal(t, "https://api.groq.com/openai/v1", p.cfg.BaseURL)
}
