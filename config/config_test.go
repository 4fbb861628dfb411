package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("USE_MOCK_DATA", "")
	t.Setenv("REFRESH_INTERVAL_SECONDS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if !cfg.UseMockData {
		t.Error("expected mock data enabled by default")
	}
	if cfg.RefreshIntervalSeconds != 5 {
		t.Errorf("RefreshIntervalSeconds = %d, want 5", cfg.RefreshIntervalSeconds)
	}
	if cfg.CacheTTLSeconds != 60 {
		t.Errorf("CacheTTLSeconds = %d, want 60", cfg.CacheTTLSeconds)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("USE_MOCK_DATA", "false")
	t.Setenv("REFRESH_INTERVAL_SECONDS", "30")
	t.Setenv("PRIMARY_PROVIDER_API_KEY", "abc123")
	t.Setenv("PREDICTIONS_ENABLED", "false")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.UseMockData {
		t.Error("expected mock data disabled")
	}
	if cfg.RefreshIntervalSeconds != 30 {
		t.Errorf("RefreshIntervalSeconds = %d, want 30", cfg.RefreshIntervalSeconds)
	}
	if cfg.PrimaryProviderAPIKey != "abc123" {
		t.Errorf("PrimaryProviderAPIKey = %q", cfg.PrimaryProviderAPIKey)
	}
	if cfg.PredictionsEnabled {
		t.Error("expected predictions disabled")
	}
}

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	t.Setenv("USE_MOCK_DATA", "definitely")
	t.Setenv("REFRESH_INTERVAL_SECONDS", "soon")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.UseMockData {
		t.Error("invalid boolean should fall back to default true")
	}
	if cfg.RefreshIntervalSeconds != 5 {
		t.Errorf("invalid integer should fall back to 5, got %d", cfg.RefreshIntervalSeconds)
	}
}
