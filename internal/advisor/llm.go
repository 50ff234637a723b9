package advisor

import "context"

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is the internal message representation shared by all
// providers. Each adapter translates it into its vendor's wire shape.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request carries one completion request through the dispatcher.
type Request struct {
	System      string
	Messages    []ChatMessage
	MaxTokens   int32
	Temperature float32
}

// Response is the normalized reply from whichever provider succeeded.
type Response struct {
	Text string
}

// Provider performs exactly one completion attempt against one vendor/model.
// Implementations do not retry and have no side effects beyond the outbound
// HTTP call; failures are reported as *ProviderError.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (Response, error)
}
