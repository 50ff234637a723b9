package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/stocklens/stocklens/internal/advisor"
	"github.com/stocklens/stocklens/internal/api/router"
	appconfig "github.com/stocklens/stocklens/internal/config"
	"github.com/stocklens/stocklens/internal/news"
	"github.com/stocklens/stocklens/internal/observability/metrics"
	"github.com/stocklens/stocklens/internal/session"
	"github.com/stocklens/stocklens/internal/webchat"
	"github.com/stocklens/stocklens/pkg/logging"
)

func main() {
	// .env is optional; real deployments use environment variables.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting stocklens API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	advisorMetrics := metrics.NewAdvisorMetrics(registry)

	providers := buildProviders(context.Background(), cfg, logger)
	if len(providers) == 0 {
		logger.Warn("no AI providers configured; chat requests will return setup guidance")
	}
	dispatcher := advisor.NewDispatcher(providers, cfg.ProviderTimeout, logger, advisorMetrics)

	sessions := buildSessionStore(cfg, logger)
	chatService := advisor.NewChatService(dispatcher, sessions, logger)

	newsService := news.NewService(buildNewsSources(cfg, logger), logger)

	routerCfg := &router.Config{
		Logger:             logger,
		AdvisorHandler:     advisor.NewHandler(chatService, logger),
		NewsHandler:        news.NewHandler(newsService, logger),
		WebChatHandler:     webchat.NewHandler(chatService, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		ChatRateLimit:      cfg.ChatRateLimit,
		ChatRateBurst:      cfg.ChatRateBurst,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "providers", dispatcher.Providers())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}

// buildProviders constructs the completion providers in fallback order.
// Providers without credentials are skipped rather than constructed.
func buildProviders(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) []advisor.Provider {
	var providers []advisor.Provider

	if cfg.GeminiAPIKey != "" {
		gemini, err := advisor.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("failed to initialize gemini provider", "error", err)
		} else {
			providers = append(providers, gemini)
		}
	}
	if cfg.OpenAIAPIKey != "" {
		openai, err := advisor.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		if err != nil {
			logger.Error("failed to initialize openai provider", "error", err)
		} else {
			providers = append(providers, openai)
		}
	}
	if cfg.GroqAPIKey != "" {
		groq, err := advisor.NewGroqProvider(cfg.GroqAPIKey, cfg.GroqModel, cfg.GroqBaseURL)
		if err != nil {
			logger.Error("failed to initialize groq provider", "error", err)
		} else {
			providers = append(providers, groq)
		}
	}

	return providers
}

// buildSessionStore selects Redis-backed history when an address is
// configured, in-memory otherwise.
func buildSessionStore(cfg *appconfig.Config, logger *logging.Logger) session.Store {
	if cfg.RedisAddr == "" {
		logger.Info("using in-memory session store",
			"max_turns", cfg.SessionMaxTurns,
			"max_sessions", cfg.SessionMaxSessions,
		)
		return session.NewMemoryStore(cfg.SessionMaxTurns, cfg.SessionMaxSessions, logger)
	}

	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	logger.Info("using redis session store", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
	tracer := otel.Tracer("stocklens.internal.session")
	return session.NewRedisStore(client, cfg.SessionMaxTurns, cfg.SessionTTL, tracer)
}

func buildNewsSources(cfg *appconfig.Config, logger *logging.Logger) []news.Source {
	var sources []news.Source
	if cfg.NewsAPIKey != "" {
		sources = append(sources, news.NewNewsAPISource(cfg.NewsAPIKey, "", nil))
	}
	if cfg.FinnhubAPIKey != "" {
		sources = append(sources, news.NewFinnhubSource(cfg.FinnhubAPIKey, "", nil))
	}
	if len(sources) == 0 {
		logger.Warn("no news sources configured; /news/fetch will return empty feeds")
	}
	return sources
}
