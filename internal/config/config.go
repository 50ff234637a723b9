package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// LLM provider credentials. Empty means the provider is not configured
	// and will never be attempted. Placeholder values from a copied .env
	// template (e.g. "your_gemini_api_key_here") are stripped at load time
	// so the dispatch path never has to check for sentinel strings.
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	GroqAPIKey    string
	GroqModel     string
	GroqBaseURL   string

	// Per-provider attempt timeout applied by the dispatcher.
	ProviderTimeout time.Duration

	// Session store bounds.
	SessionMaxTurns    int
	SessionMaxSessions int
	SessionTTL         time.Duration

	// Optional Redis backing for session history. Empty addr selects the
	// in-memory store.
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// News source credentials (same placeholder handling as above).
	NewsAPIKey    string
	FinnhubAPIKey string

	// Per-IP rate limit for the completion routes; zero disables it.
	ChatRateLimit float64
	ChatRateBurst int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "")),

		GeminiAPIKey:  getCredential("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey:  getCredential("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		GroqAPIKey:    getCredential("GROQ_API_KEY"),
		GroqModel:     getEnv("GROQ_MODEL", "mixtral-8x7b-32768"),
		GroqBaseURL:   getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),

		ProviderTimeout: getEnvAsDuration("PROVIDER_TIMEOUT", 30*time.Second),

		SessionMaxTurns:    getEnvAsInt("SESSION_MAX_TURNS", 10),
		SessionMaxSessions: getEnvAsInt("SESSION_MAX_SESSIONS", 100),
		SessionTTL:         getEnvAsDuration("SESSION_TTL", 24*time.Hour),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		NewsAPIKey:    getCredential("NEWS_API_KEY"),
		FinnhubAPIKey: getCredential("FINNHUB_API_KEY"),

		ChatRateLimit: getEnvAsFloat("CHAT_RATE_LIMIT", 1),
		ChatRateBurst: getEnvAsInt("CHAT_RATE_BURST", 5),
	}
}

// HasProviderCredentials reports whether at least one LLM provider is usable.
func (c *Config) HasProviderCredentials() bool {
	return c.GeminiAPIKey != "" || c.OpenAIAPIKey != "" || c.GroqAPIKey != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getCredential retrieves an API key, treating .env-template placeholders
// ("your_..._here") and whitespace-only values as not configured.
func getCredential(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if isPlaceholder(value) {
		return ""
	}
	return value
}

func isPlaceholder(value string) bool {
	lower := strings.ToLower(value)
	return strings.HasPrefix(lower, "your_") && strings.HasSuffix(lower, "_here")
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
