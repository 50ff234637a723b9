package advisor

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklens/stocklens/internal/session"
	"github.com/stocklens/stocklens/pkg/logging"
)

// echoProvider replies with a counter and records the request it saw.
type echoProvider struct {
	requests []Request
}

func (e *echoProvider) Name() string { return "echo" }

func (e *echoProvider) Complete(_ context.Context, req Request) (Response, error) {
	e.requests = append(e.requests, req)
	return Response{Text: fmt.Sprintf("reply %d", len(e.requests))}, nil
}

func newTestService(t *testing.T, providers ...Provider) (*ChatService, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore(10, 100, logging.New("error"))
	d := NewDispatcher(providers, 0, logging.New("error"), nil)
	return NewChatService(d, store, logging.New("error")), store
}

func TestChatCreatesSessionAndPersistsTurns(t *testing.T) {
	ctx := context.Background()
	provider := &echoProvider{}
	svc, store := newTestService(t, provider)

	result, err := svc.Chat(ctx, "", "What is a P/E ratio?")
	require.NoError(t, err)
	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, "reply 1", result.Reply)

	turns, err := store.History(ctx, result.SessionID)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, session.RoleUser, turns[0].Role)
	assert.Equal(t, "What is a P/E ratio?", turns[0].Content)
	assert.Equal(t, session.RoleAssistant, turns[1].Role)
}

func TestChatSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	provider := &echoProvider{}
	svc, store := newTestService(t, provider)

	first, err := svc.Chat(ctx, "", "first message")
	require.NoError(t, err)

	second, err := svc.Chat(ctx, first.SessionID, "second message")
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)

	turns, err := store.History(ctx, first.SessionID)
	require.NoError(t, err)
	require.Len(t, turns, 4)
	assert.Equal(t, "first message", turns[0].Content)
	assert.Equal(t, "second message", turns[2].Content)

	// The second dispatch carried the full prior context.
	lastReq := provider.requests[len(provider.requests)-1]
	require.Len(t, lastReq.Messages, 3)
	assert.Equal(t, "first message", lastReq.Messages[0].Content)
	assert.Equal(t, "reply 1", lastReq.Messages[1].Content)
	assert.Equal(t, "second message", lastReq.Messages[2].Content)
}

func TestChatCarriesPersonaPrompt(t *testing.T) {
	ctx := context.Background()
	provider := &echoProvider{}
	svc, _ := newTestService(t, provider)

	_, err := svc.Chat(ctx, "", "hello")
	require.NoError(t, err)
	require.Len(t, provider.requests, 1)
	assert.True(t, strings.Contains(provider.requests[0].System, "WealthVisor"))
}

func TestChatElevenMessagesKeepsTen(t *testing.T) {
	ctx := context.Background()
	provider := &echoProvider{}
	svc, store := newTestService(t, provider)

	result, err := svc.Chat(ctx, "", "message 1")
	require.NoError(t, err)
	id := result.SessionID
	for i := 2; i <= 11; i++ {
		_, err := svc.Chat(ctx, id, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	turns, err := store.History(ctx, id)
	require.NoError(t, err)
	require.Len(t, turns, 10)
	for _, turn := range turns {
		assert.NotEqual(t, "message 1", turn.Content, "oldest user turn must have been evicted")
	}
}

func TestChatDispatchFailureLeavesUserTurnStored(t *testing.T) {
	ctx := context.Background()
	failing := providerFunc{name: "down", fn: func(context.Context, Request) (Response, error) {
		return Response{}, &ProviderError{Provider: "down", Err: fmt.Errorf("unreachable")}
	}}
	svc, store := newTestService(t, failing)

	// Establish a session first so we can inspect it after the failure.
	id, _, err := store.GetOrCreate(ctx, "")
	require.NoError(t, err)

	_, err = svc.Chat(ctx, id, "doomed message")
	require.Error(t, err)

	turns, err := store.History(ctx, id)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, session.RoleUser, turns[0].Role)
}

func TestSummarizeIsOneShot(t *testing.T) {
	ctx := context.Background()
	provider := &echoProvider{}
	svc, store := newTestService(t, provider)

	summary, err := svc.Summarize(ctx, []ArticleInput{{Title: "Markets rally", Source: "AP"}})
	require.NoError(t, err)
	assert.Equal(t, "reply 1", summary)
	assert.Equal(t, 0, store.Len(), "summarize must not create sessions")

	require.Len(t, provider.requests, 1)
	assert.Empty(t, provider.requests[0].System)
	assert.Contains(t, provider.requests[0].Messages[0].Content, "Markets rally")
}

func TestExplainSentimentStartsFreshSession(t *testing.T) {
	ctx := context.Background()
	provider := &echoProvider{}
	svc, _ := newTestService(t, provider)

	result, err := svc.ExplainSentiment(ctx, ArticleInput{
		Ticker:    "NVDA",
		Title:     "Nvidia surges on AI demand",
		Sentiment: "positive",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.SessionID)

	require.Len(t, provider.requests, 1)
	assert.Contains(t, provider.requests[0].Messages[0].Content, "'positive' sentiment")
	assert.Contains(t, provider.requests[0].Messages[0].Content, "NVDA")
}
