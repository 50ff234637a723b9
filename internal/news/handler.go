package news

import (
	"encoding/json"
	"net/http"

	"github.com/stocklens/stocklens/pkg/logging"
)

// Handler exposes the news feed over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type fetchRequest struct {
	Tickers []string `json:"tickers"`
}

type fetchResponse struct {
	Articles []Article `json:"articles"`
	Count    int       `json:"count"`
}

// Fetch handles POST /news/fetch.
func (h *Handler) Fetch(w http.ResponseWriter, r *http.Request) {
	var req fetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Tickers) == 0 {
		writeError(w, http.StatusBadRequest, "Tickers array is required")
		return
	}

	articles, err := h.service.FetchForTickers(r.Context(), req.Tickers)
	if err != nil {
		h.logger.Error("news fetch failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch news")
		return
	}
	if articles == nil {
		articles = []Article{}
	}

	writeJSON(w, http.StatusOK, fetchResponse{Articles: articles, Count: len(articles)})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
