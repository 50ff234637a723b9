package advisor

import (
	"context"

	"github.com/stocklens/stocklens/internal/session"
	"github.com/stocklens/stocklens/pkg/logging"
)

const (
	chatMaxTokens      = 1024
	summarizeMaxTokens = 1000
	defaultTemperature = 0.7
)

// ChatService ties the session store and the fallback dispatcher together
// for one chat turn: resolve session, append user turn, dispatch with full
// context, persist the assistant turn.
type ChatService struct {
	dispatcher *Dispatcher
	sessions   session.Store
	logger     *logging.Logger
}

// NewChatService creates the advisor chat service.
func NewChatService(dispatcher *Dispatcher, sessions session.Store, logger *logging.Logger) *ChatService {
	if dispatcher == nil {
		panic("advisor: dispatcher cannot be nil")
	}
	if sessions == nil {
		panic("advisor: session store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatService{
		dispatcher: dispatcher,
		sessions:   sessions,
		logger:     logger,
	}
}

// ChatResult is the outcome of one successful chat turn.
type ChatResult struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// Chat processes one user message within a session. An empty sessionID
// starts a new conversation; the returned id must be echoed back by the
// client to continue it.
func (s *ChatService) Chat(ctx context.Context, sessionID, message string) (*ChatResult, error) {
	id, turns, err := s.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	userTurn := session.Turn{Role: session.RoleUser, Content: message}
	if err := s.sessions.Append(ctx, id, userTurn); err != nil {
		return nil, err
	}
	turns = append(turns, userTurn)

	resp, err := s.dispatcher.Dispatch(ctx, Request{
		System:      wealthVisorPrompt,
		Messages:    toMessages(turns),
		MaxTokens:   chatMaxTokens,
		Temperature: defaultTemperature,
	})
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Append(ctx, id, session.Turn{Role: session.RoleAssistant, Content: resp.Text}); err != nil {
		// The reply was already generated; losing the stored turn only
		// degrades future context.
		s.logger.Warn("failed to persist assistant turn", "session_id", id, "error", err)
	}

	return &ChatResult{SessionID: id, Reply: resp.Text}, nil
}

// History returns the stored turns for a session.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]session.Turn, error) {
	return s.sessions.History(ctx, sessionID)
}

// Summarize produces an analyst summary of a batch of news articles.
// One-shot: no session is created.
func (s *ChatService) Summarize(ctx context.Context, articles []ArticleInput) (string, error) {
	resp, err := s.dispatcher.Dispatch(ctx, Request{
		Messages: []ChatMessage{
			{Role: ChatRoleUser, Content: buildSummarizePrompt(articles)},
		},
		MaxTokens:   summarizeMaxTokens,
		Temperature: defaultTemperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// ExplainSentiment asks the advisor to justify an article's sentiment
// classification. Runs through Chat with a fresh session so the user can
// follow up on the explanation.
func (s *ChatService) ExplainSentiment(ctx context.Context, article ArticleInput) (*ChatResult, error) {
	return s.Chat(ctx, "", buildExplainSentimentPrompt(article))
}

func toMessages(turns []session.Turn) []ChatMessage {
	msgs := make([]ChatMessage, len(turns))
	for i, t := range turns {
		msgs[i] = ChatMessage{Role: t.Role, Content: t.Content}
	}
	return msgs
}
