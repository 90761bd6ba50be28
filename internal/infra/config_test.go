package infra

import (
	"testing"
	"time"
)

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/atelier")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SDAPIURL != "http://127.0.0.1:7860" {
		t.Fatalf("sd api url = %q", cfg.SDAPIURL)
	}
	if cfg.SDCheckpoint != "AnythingXL_xl.safetensors" {
		t.Fatalf("checkpoint = %q", cfg.SDCheckpoint)
	}
	if cfg.SDSampler != "DPM++ 2M Karras" {
		t.Fatalf("sampler = %q", cfg.SDSampler)
	}
	if cfg.SDTimeout != 10*time.Minute {
		t.Fatalf("sd timeout = %v, want 10m", cfg.SDTimeout)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("allowed origins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/atelier")
	t.Setenv("SD_TIMEOUT_SECONDS", "120")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SDTimeout != 2*time.Minute {
		t.Fatalf("sd timeout = %v", cfg.SDTimeout)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("allowed origins = %v", cfg.AllowedOrigins)
	}
}
