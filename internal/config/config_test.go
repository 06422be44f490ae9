package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "baseURL: http://localhost:5109/api/v1\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PageSize != 6 {
		t.Fatalf("default page size = %d, want 6", cfg.PageSize)
	}
	if cfg.PenaltyDailyRate == nil || *cfg.PenaltyDailyRate != 5.0 {
		t.Fatalf("default penalty rate = %v, want 5.0", cfg.PenaltyDailyRate)
	}
	if cfg.RequestTimeout != "10s" || cfg.CacheTTL != "30s" {
		t.Fatalf("default durations = %q / %q", cfg.RequestTimeout, cfg.CacheTTL)
	}
}

func TestLoadRequiresBaseURL(t *testing.T) {
	path := writeConfig(t, "logLevel: debug\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("missing baseURL should fail validation")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "baseURL: http://localhost:5109/api/v1\npageSize: 10\n")
	t.Setenv("LIBRIS_PAGE_SIZE", "12")
	t.Setenv("LIBRIS_BASE_URL", "http://example.test/api")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PageSize != 12 {
		t.Fatalf("page size = %d, want env override 12", cfg.PageSize)
	}
	if cfg.BaseURL != "http://example.test/api" {
		t.Fatalf("base url = %q", cfg.BaseURL)
	}
}

func TestLoadKeepsExplicitZeroPenaltyRate(t *testing.T) {
	path := writeConfig(t, "baseURL: http://localhost:5109/api/v1\npenaltyDailyRate: 0\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PenaltyDailyRate == nil || *cfg.PenaltyDailyRate != 0 {
		t.Fatalf("a configured zero rate must survive loading, got %v", cfg.PenaltyDailyRate)
	}
}

func TestLoadRejectsBadDurations(t *testing.T) {
	path := writeConfig(t, "baseURL: http://localhost:5109/api/v1\nrequestTimeout: soon\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("invalid requestTimeout should fail validation")
	}
}
