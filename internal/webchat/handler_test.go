package webchat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/stocklens/stocklens/internal/advisor"
	"github.com/stocklens/stocklens/internal/session"
	"github.com/stocklens/stocklens/pkg/logging"
)

// mockChat echoes messages and records the session ids it was called with.
type mockChat struct {
	sessionID string
	history   []session.Turn
	err       error
	calls     []string
}

func (m *mockChat) Chat(_ context.Context, sessionID, message string) (*advisor.ChatResult, error) {
	m.calls = append(m.calls, sessionID)
	if m.err != nil {
		return nil, m.err
	}
	id := m.sessionID
	if id == "" {
		id = sessionID
	}
	return &advisor.ChatResult{SessionID: id, Reply: "echo: " + message}, nil
}

func (m *mockChat) History(_ context.Context, sessionID string) ([]session.Turn, error) {
	return m.history, nil
}

func dialTestServer(t *testing.T, h *Handler, query string) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/chat/ws" + query
	conn, err := websocket.Dial(wsURL, "", server.URL)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func receive(t *testing.T, conn *websocket.Conn) OutboundMessage {
	t.Helper()
	var msg OutboundMessage
	require.NoError(t, websocket.JSON.Receive(conn, &msg))
	return msg
}

func TestWebSocketChatRoundTrip(t *testing.T) {
	chat := &mockChat{sessionID: "minted-1"}
	h := NewHandler(chat, logging.New("error"))
	conn := dialTestServer(t, h, "")

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "hello"}))

	typing := receive(t, conn)
	assert.Equal(t, "typing", typing.Type)

	// A new connection carries no session, so the minted id is announced.
	sessionFrame := receive(t, conn)
	assert.Equal(t, "session", sessionFrame.Type)
	assert.Equal(t, "minted-1", sessionFrame.SessionID)

	reply := receive(t, conn)
	assert.Equal(t, "message", reply.Type)
	assert.Equal(t, session.RoleAssistant, reply.Role)
	assert.Equal(t, "echo: hello", reply.Text)
	assert.Equal(t, "minted-1", reply.SessionID)

	// The next message rides the adopted session id.
	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "again"}))
	assert.Equal(t, "typing", receive(t, conn).Type)
	assert.Equal(t, "echo: again", receive(t, conn).Text)
	assert.Equal(t, []string{"", "minted-1"}, chat.calls)
}

func TestWebSocketReplaysHistory(t *testing.T) {
	chat := &mockChat{
		sessionID: "sess-1",
		history: []session.Turn{
			{Role: session.RoleUser, Content: "hi"},
			{Role: session.RoleAssistant, Content: "hello"},
		},
	}
	h := NewHandler(chat, logging.New("error"))
	conn := dialTestServer(t, h, "?session=sess-1")

	frame := receive(t, conn)
	require.Equal(t, "history", frame.Type)
	require.Len(t, frame.Messages, 2)
	assert.Equal(t, session.RoleUser, frame.Messages[0].Role)
	assert.Equal(t, "hi", frame.Messages[0].Text)
}

func TestWebSocketPing(t *testing.T) {
	h := NewHandler(&mockChat{}, logging.New("error"))
	conn := dialTestServer(t, h, "")

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "ping"}))
	assert.Equal(t, "pong", receive(t, conn).Type)
}

func TestWebSocketChatFailure(t *testing.T) {
	chat := &mockChat{err: errors.New("all providers down")}
	h := NewHandler(chat, logging.New("error"))
	conn := dialTestServer(t, h, "")

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "hello"}))

	assert.Equal(t, "typing", receive(t, conn).Type)
	frame := receive(t, conn)
	assert.Equal(t, "error", frame.Type)
	assert.Contains(t, frame.Text, "try again")
}

func TestWebSocketIgnoresBlankMessages(t *testing.T) {
	chat := &mockChat{}
	h := NewHandler(chat, logging.New("error"))
	conn := dialTestServer(t, h, "")

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "   "}))
	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "ping"}))

	// The blank message is dropped; the ping reply arrives first.
	assert.Equal(t, "pong", receive(t, conn).Type)
	assert.Empty(t, chat.calls)
}
