package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "demo-project")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port mismatch: got %q want %q", cfg.Port, "8080")
	}
	if !cfg.UseVertex {
		t.Fatalf("UseVertex should default to true")
	}
	if cfg.GCSBucket != "creative-studio-assets" {
		t.Fatalf("GCSBucket mismatch: got %q", cfg.GCSBucket)
	}
	if cfg.PollInterval != 10*time.Second {
		t.Fatalf("PollInterval mismatch: got %v", cfg.PollInterval)
	}
	if cfg.ResolveAttempts != 10 || cfg.ResolveDelay != 2*time.Second {
		t.Fatalf("resolve budget mismatch: attempts=%d delay=%v", cfg.ResolveAttempts, cfg.ResolveDelay)
	}
	if cfg.SignedURLTTL != time.Hour {
		t.Fatalf("SignedURLTTL mismatch: got %v", cfg.SignedURLTTL)
	}
}

func TestLoadConfigRequiresProjectInVertexMode(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	t.Setenv("GOOGLE_GENAI_USE_VERTEXAI", "true")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when GOOGLE_CLOUD_PROJECT is missing in vertex mode")
	}
}

func TestLoadConfigRequiresAPIKeyInDirectMode(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("GOOGLE_GENAI_USE_VERTEXAI", "false")
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when GEMINI_API_KEY is missing in direct mode")
	}
}

func TestLoadConfigDirectMode(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("GOOGLE_GENAI_USE_VERTEXAI", "false")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("MODEL_VIDEO", "veo-custom")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.UseVertex {
		t.Fatal("UseVertex should be false")
	}
	if cfg.ModelVideo != "veo-custom" {
		t.Fatalf("ModelVideo mismatch: got %q", cfg.ModelVideo)
	}
}
