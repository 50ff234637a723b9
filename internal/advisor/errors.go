package advisor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoProviders is returned by Dispatch when no provider is configured.
// Distinct from exhaustion: no HTTP attempt was ever made.
var ErrNoProviders = errors.New("advisor: no AI providers configured")

// SetupGuidance is the user-facing text surfaced when no provider
// credentials are present.
const SetupGuidance = "No AI API keys configured. Set GEMINI_API_KEY, OPENAI_API_KEY, or GROQ_API_KEY.\n\n" +
	"Quick setup:\n" +
	"1. Gemini (free): https://aistudio.google.com/app/apikey\n" +
	"2. Groq (free & fast): https://console.groq.com/keys\n" +
	"3. OpenAI (paid): https://platform.openai.com/api-keys"

// ProviderError normalizes a single vendor failure: transport error, non-2xx
// status, or a success response with no extractable reply.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Attempt records one failed provider attempt during a dispatch.
type Attempt struct {
	Provider string
	Err      error
}

// ExhaustedError reports that every configured provider failed. It carries
// one entry per attempted provider, in attempt order.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Provider, a.Err))
	}
	return "all AI providers failed:\n" + strings.Join(parts, "\n")
}
