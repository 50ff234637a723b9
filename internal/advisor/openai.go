package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxResponseSize bounds provider response bodies (10 MB).
const maxResponseSize = 10 * 1024 * 1024

// OpenAICompatConfig configures one OpenAI-compatible chat-completions
// endpoint. Groq exposes the same wire shape at a different base URL, so a
// single adapter covers both vendors.
type OpenAICompatConfig struct {
	Name       string
	BaseURL    string
	Model      string
	APIKey     string
	HTTPClient *http.Client
}

// OpenAICompatProvider implements Provider over the OpenAI chat-completions
// wire format.
type OpenAICompatProvider struct {
	cfg  OpenAICompatConfig
	http *http.Client
}

// NewOpenAIProvider creates a provider for api.openai.com.
func NewOpenAIProvider(apiKey, model, baseURL string) (*OpenAICompatProvider, error) {
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return newOpenAICompat(OpenAICompatConfig{Name: "openai", BaseURL: baseURL, Model: model, APIKey: apiKey})
}

// NewGroqProvider creates a provider for Groq's OpenAI-compatible API.
func NewGroqProvider(apiKey, model, baseURL string) (*OpenAICompatProvider, error) {
	if model == "" {
		model = "mixtral-8x7b-32768"
	}
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	return newOpenAICompat(OpenAICompatConfig{Name: "groq", BaseURL: baseURL, Model: model, APIKey: apiKey})
}

// NewOpenAICompatProvider creates a provider from an explicit config, used
// by tests and custom-endpoint deployments.
func NewOpenAICompatProvider(cfg OpenAICompatConfig) (*OpenAICompatProvider, error) {
	return newOpenAICompat(cfg)
}

func newOpenAICompat(cfg OpenAICompatConfig) (*OpenAICompatProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("advisor: %s api key is required", cfg.Name)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &OpenAICompatProvider{cfg: cfg, http: httpClient}, nil
}

// Name identifies the provider in dispatch logs and aggregate errors.
func (p *OpenAICompatProvider) Name() string { return p.cfg.Name }

// chat-completions wire types.

type oaiRequest struct {
	Model       string       `json:"model"`
	Messages    []oaiMessage `json:"messages"`
	MaxTokens   int32        `json:"max_tokens,omitempty"`
	Temperature float32      `json:"temperature,omitempty"`
}

type oaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oaiResponse struct {
	Choices []struct {
		Message oaiMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a single chat-completions request.
func (p *OpenAICompatProvider) Complete(ctx context.Context, req Request) (Response, error) {
	messages := make([]oaiMessage, 0, len(req.Messages)+1)
	if strings.TrimSpace(req.System) != "" {
		messages = append(messages, oaiMessage{Role: ChatRoleSystem, Content: req.System})
	}
	for _, m := range req.Messages {
		messages = append(messages, oaiMessage{Role: m.Role, Content: m.Content})
	}

	payload := oaiRequest{
		Model:       p.cfg.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Response{}, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(p.cfg.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Response{}, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.http.Do(httpReq)
	if err != nil {
		return Response{}, &ProviderError{Provider: p.Name(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return Response{}, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("read response: %w", err)}
	}

	var parsed oaiResponse
	if err := json.Unmarshal(data, &parsed); err != nil && resp.StatusCode < 300 {
		return Response{}, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = fmt.Sprintf("status %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return Response{}, &ProviderError{Provider: p.Name(), Err: errors.New(msg)}
	}

	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return Response{}, &ProviderError{Provider: p.Name(), Err: errors.New("empty response")}
	}

	return Response{Text: strings.TrimSpace(parsed.Choices[0].Message.Content)}, nil
}
