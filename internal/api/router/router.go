package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stocklens/stocklens/internal/advisor"
	httpmiddleware "github.com/stocklens/stocklens/internal/http/middleware"
	"github.com/stocklens/stocklens/internal/news"
	"github.com/stocklens/stocklens/internal/webchat"
	"github.com/stocklens/stocklens/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	AdvisorHandler     *advisor.Handler
	NewsHandler        *news.Handler
	WebChatHandler     *webchat.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Requests/sec and burst for the chat routes; zero disables limiting.
	ChatRateLimit float64
	ChatRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Completion routes carry the AI cost, so they get the rate limiter.
	r.Group(func(ai chi.Router) {
		if cfg.ChatRateLimit > 0 && cfg.ChatRateBurst > 0 {
			ai.Use(httpmiddleware.RateLimit(cfg.ChatRateLimit, cfg.ChatRateBurst))
		}
		if cfg.AdvisorHandler != nil {
			ai.Post("/chat", cfg.AdvisorHandler.Chat)
			ai.Get("/chat/history", cfg.AdvisorHandler.History)
			ai.Post("/summarize", cfg.AdvisorHandler.Summarize)
			ai.Post("/explain-sentiment", cfg.AdvisorHandler.ExplainSentiment)
		}
		if cfg.WebChatHandler != nil {
			ai.Get("/chat/ws", cfg.WebChatHandler.HandleWebSocket)
		}
	})

	if cfg.NewsHandler != nil {
		r.Post("/news/fetch", cfg.NewsHandler.Fetch)
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
