package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv         string
	Port           string
	DatabaseURL    string
	AllowedOrigins []string

	// Blob storage. When LocalStoragePath is set a filesystem store replaces
	// the bucket; intended for development only.
	GCSBucket        string
	SignedURLTTL     time.Duration
	LocalStoragePath string

	// Requests per client IP per minute.
	RateLimitPerMinute int

	// Provider mode. When UseVertex is true all generative calls go through
	// Vertex AI with project/location scoped endpoints and OAuth credentials;
	// otherwise the direct Gemini API with an API key is used.
	UseVertex     bool
	GeminiAPIKey  string
	GeminiBaseURL string
	GCPProject    string
	GCPLocation   string

	// Model ids.
	ModelTextFast         string
	ModelTextHighQuality  string
	ModelInsights         string
	ModelImageFast        string
	ModelImageHighQuality string
	ModelVideo            string
	ModelTryOn            string

	// Long-running operation polling and output resolution.
	PollInterval    time.Duration
	PollMaxWait     time.Duration
	ResolveAttempts int
	ResolveDelay    time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		GCSBucket:        getEnv("GCS_BUCKET_NAME", "creative-studio-assets"),
		SignedURLTTL:     time.Minute * time.Duration(getEnvInt("SIGNED_URL_TTL_MINUTES", 60)),
		LocalStoragePath: os.Getenv("LOCAL_STORAGE_PATH"),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),

		UseVertex:     getEnvBool("GOOGLE_GENAI_USE_VERTEXAI", true),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GCPProject:    os.Getenv("GOOGLE_CLOUD_PROJECT"),
		GCPLocation:   getEnv("GOOGLE_CLOUD_LOCATION", "us-central1"),

		ModelTextFast:         getEnv("MODEL_TEXT_FAST", "gemini-2.5-flash"),
		ModelTextHighQuality:  getEnv("MODEL_TEXT_HIGH_QUALITY", "gemini-2.5-pro"),
		ModelInsights:         getEnv("MODEL_INSIGHTS", "gemini-2.5-pro"),
		ModelImageFast:        getEnv("MODEL_IMAGE_FAST", "gemini-2.5-flash-image"),
		ModelImageHighQuality: getEnv("MODEL_IMAGE_HIGH_QUALITY", "publishers/google/models/gemini-3-pro-image-preview"),
		ModelVideo:            getEnv("MODEL_VIDEO", "veo-3.1-generate-preview"),
		ModelTryOn:            getEnv("MODEL_TRYON", "virtual-try-on-preview-08-04"),

		PollInterval:    time.Second * time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 10)),
		PollMaxWait:     time.Minute * time.Duration(getEnvInt("POLL_MAX_WAIT_MINUTES", 30)),
		ResolveAttempts: getEnvInt("RESOLVE_MAX_ATTEMPTS", 10),
		ResolveDelay:    time.Second * time.Duration(getEnvInt("RESOLVE_DELAY_SECONDS", 2)),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.UseVertex {
		if cfg.GCPProject == "" {
			return nil, fmt.Errorf("GOOGLE_CLOUD_PROJECT is required when GOOGLE_GENAI_USE_VERTEXAI is enabled")
		}
	} else if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required when GOOGLE_GENAI_USE_VERTEXAI is disabled")
	}

	return cfg, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
