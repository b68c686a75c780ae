package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("MAX_UPLOAD_MB", "")
	t.Setenv("INSIGHT_TTL_HOURS", "")

	cfg := Load()
	if cfg.Env != "dev" || !cfg.IsDev() {
		t.Fatalf("expected dev env, got %q", cfg.Env)
	}
	if cfg.LLMProvider != "gemini" {
		t.Fatalf("expected gemini default provider, got %q", cfg.LLMProvider)
	}
	if cfg.MaxUploadBytes != 5<<20 {
		t.Fatalf("expected 5MB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.InsightTTL != 7*24*time.Hour {
		t.Fatalf("expected one week insight ttl, got %s", cfg.InsightTTL)
	}
}

func TestLoadNormalizes(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("LLM_PROVIDER", "Claude")
	t.Setenv("OBJECT_STORE", "S3")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("expected production, got %q", cfg.Env)
	}
	if cfg.LLMProvider != "anthropic" {
		t.Fatalf("expected anthropic, got %q", cfg.LLMProvider)
	}
	if cfg.ObjectStoreType != "s3" {
		t.Fatalf("expected s3, got %q", cfg.ObjectStoreType)
	}
	if len(cfg.CORSAllowOrigin) != 2 || cfg.CORSAllowOrigin[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %#v", cfg.CORSAllowOrigin)
	}
}

func TestValidateProduction(t *testing.T) {
	cfg := Config{Env: "production", ObjectStoreType: "s3"}
	if got := cfg.Validate(); len(got) != 3 {
		t.Fatalf("expected 3 problems, got %#v", got)
	}
	cfg = Config{Env: "production", DatabaseURL: "postgres://x", JWTSecret: "s3cret", ObjectStoreType: "local"}
	if got := cfg.Validate(); len(got) != 0 {
		t.Fatalf("expected no problems, got %#v", got)
	}
}

func TestLoadEnvFilesDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("SENSAI_TEST_A=file\nSENSAI_TEST_B=\"quoted\"\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("SENSAI_TEST_A", "env")
	t.Setenv("SENSAI_TEST_B", "")
	os.Unsetenv("SENSAI_TEST_B")

	loaded := loadEnvFiles(path, filepath.Join(dir, "missing.env"))
	if len(loaded) != 1 || loaded[0] != path {
		t.Fatalf("expected only the existing file to be reported, got %v", loaded)
	}

	if got := os.Getenv("SENSAI_TEST_A"); got != "env" {
		t.Fatalf("expected existing value to win, got %q", got)
	}
	if got := os.Getenv("SENSAI_TEST_B"); got != "quoted" {
		t.Fatalf("expected file value, got %q", got)
	}
}
