package advisor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/stocklens/stocklens/internal/session"
	"github.com/stocklens/stocklens/pkg/logging"
)

// Handler wires HTTP requests to the advisor chat service.
type Handler struct {
	service *ChatService
	logger  *logging.Logger
}

// NewHandler creates an advisor handler.
func NewHandler(service *ChatService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// Chat handles POST /chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	result, err := h.service.Chat(r.Context(), req.SessionID, req.Message)
	if err != nil {
		h.writeDispatchError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// History handles GET /chat/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		h.writeError(w, http.StatusBadRequest, "session_id parameter required")
		return
	}

	turns, err := h.service.History(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to load session history", "session_id", sessionID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}
	if turns == nil {
		turns = []session.Turn{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"turns":      turns,
	})
}

type summarizeRequest struct {
	Articles []ArticleInput `json:"articles"`
}

// Summarize handles POST /summarize.
func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Articles array is required")
		return
	}
	if req.Articles == nil {
		h.writeError(w, http.StatusBadRequest, "Articles array is required")
		return
	}

	summary, err := h.service.Summarize(r.Context(), req.Articles)
	if err != nil {
		h.writeDispatchError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

type explainSentimentRequest struct {
	Article ArticleInput `json:"article"`
}

// ExplainSentiment handles POST /explain-sentiment.
func (h *Handler) ExplainSentiment(w http.ResponseWriter, r *http.Request) {
	var req explainSentimentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Article.Title) == "" {
		h.writeError(w, http.StatusBadRequest, "Article is required")
		return
	}

	result, err := h.service.ExplainSentiment(r.Context(), req.Article)
	if err != nil {
		h.writeDispatchError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// writeDispatchError maps dispatcher failures to user-facing payloads. Both
// exhaustion and missing configuration are server errors; the body carries
// actionable text rather than a raw stack.
func (h *Handler) writeDispatchError(w http.ResponseWriter, err error) {
	var exhausted *ExhaustedError
	switch {
	case errors.Is(err, ErrNoProviders):
		h.writeError(w, http.StatusInternalServerError, SetupGuidance)
	case errors.As(err, &exhausted):
		h.logger.Error("dispatch exhausted", "error", exhausted.Error())
		h.writeError(w, http.StatusInternalServerError, exhausted.Error())
	default:
		h.logger.Error("chat request failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to process message")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
