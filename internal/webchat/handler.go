package webchat

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/stocklens/stocklens/internal/advisor"
	"github.com/stocklens/stocklens/internal/session"
	"github.com/stocklens/stocklens/pkg/logging"
)

// ChatService is the advisor surface the websocket handler needs.
type ChatService interface {
	Chat(ctx context.Context, sessionID, message string) (*advisor.ChatResult, error)
	History(ctx context.Context, sessionID string) ([]session.Turn, error)
}

// Handler serves the real-time chat socket. Each connection carries one
// session id; the first reply after connecting reports it so the client can
// reconnect with history intact.
type Handler struct {
	chat   ChatService
	logger *logging.Logger

	mu    sync.RWMutex
	conns map[string]*wsConn // session id -> active connection
}

type wsConn struct {
	conn *websocket.Conn
}

// InboundMessage is what the chat client sends.
type InboundMessage struct {
	Type      string `json:"type"` // "message", "ping"
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// OutboundMessage is what we send to the chat client.
type OutboundMessage struct {
	Type      string           `json:"type"` // "message", "typing", "history", "session", "error", "pong"
	Text      string           `json:"text,omitempty"`
	Role      string           `json:"role,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
	Timestamp string           `json:"timestamp,omitempty"`
	Messages  []HistoryMessage `json:"messages,omitempty"`
}

// HistoryMessage is a simplified turn for history frames.
type HistoryMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// NewHandler creates a websocket chat handler.
func NewHandler(chat ChatService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		chat:   chat,
		logger: logger,
		conns:  make(map[string]*wsConn),
	}
}

// HandleWebSocket upgrades to WebSocket and handles real-time messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID := r.URL.Query().Get("session")

	// Replay history for returning sessions before taking messages.
	if sessionID != "" {
		if turns, err := h.chat.History(r.Context(), sessionID); err == nil && len(turns) > 0 {
			history := make([]HistoryMessage, 0, len(turns))
			for _, turn := range turns {
				history = append(history, HistoryMessage{Role: turn.Role, Text: turn.Content})
			}
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "history", Messages: history})
		}
	}

	h.logger.Info("webchat: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			h.unregister(sessionID)
			return
		}

		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		}

		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "typing"})

		result, err := h.chat.Chat(r.Context(), sessionID, msg.Text)
		if err != nil {
			h.logger.Error("webchat: chat failed", "session_id", sessionID, "error", err)
			_ = websocket.JSON.Send(conn, OutboundMessage{
				Type: "error",
				Text: "Sorry, something went wrong. Please try again.",
			})
			continue
		}

		// The service mints an id for new or unknown sessions; report it so
		// the client keeps the conversation on reconnect.
		if result.SessionID != sessionID {
			h.unregister(sessionID)
			sessionID = result.SessionID
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "session", SessionID: sessionID})
		}
		h.register(sessionID, conn)

		_ = websocket.JSON.Send(conn, OutboundMessage{
			Type:      "message",
			Role:      session.RoleAssistant,
			Text:      result.Reply,
			SessionID: sessionID,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func (h *Handler) register(sessionID string, conn *websocket.Conn) {
	if sessionID == "" {
		return
	}
	h.mu.Lock()
	h.conns[sessionID] = &wsConn{conn: conn}
	h.mu.Unlock()
}

func (h *Handler) unregister(sessionID string) {
	if sessionID == "" {
		return
	}
	h.mu.Lock()
	delete(h.conns, sessionID)
	h.mu.Unlock()
}
