package config

import (
	"strings"
	"testing"
)

// mapBackend is a test double for ConfigBackend.
type mapBackend struct {
	strings map[string]string
	ints    map[string]int
}

func (m mapBackend) GetString(key string) (string, bool, error) {
	v, ok := m.strings[key]
	return v, ok, nil
}

func (m mapBackend) GetInt(key string) (int, bool, error) {
	v, ok := m.ints[key]
	return v, ok, nil
}

func (m mapBackend) SetString(key, val string) error  { return nil }
func (m mapBackend) SetInt(key string, val int) error { return nil }
func (m mapBackend) Delete(key string) error          { return nil }

func clearEnv(t *testing.T) {
	t.Helper()
	for _, s := range specs {
		t.Setenv(s.env, "")
	}
}

// TestDefaults verifies default values survive an empty backend.
func TestDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("QABOARD_BACKEND_BASE_URL", "http://dashboard.test")

	cfg, err := loadWith(mapBackend{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Backend.TimeoutSeconds != 30 {
		t.Errorf("Backend.TimeoutSeconds = %d, want 30", cfg.Backend.TimeoutSeconds)
	}
	if cfg.Backend.MaxRetries != 2 {
		t.Errorf("Backend.MaxRetries = %d, want 2", cfg.Backend.MaxRetries)
	}
	if cfg.Server.Port != 4080 {
		t.Errorf("Server.Port = %d, want 4080", cfg.Server.Port)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Storage.DataDir == "" {
		t.Error("Storage.DataDir is empty")
	}
}

// TestBackendValues verifies values stored in the backend are applied.
func TestBackendValues(t *testing.T) {
	clearEnv(t)

	b := mapBackend{
		strings: map[string]string{
			"backend.base_url": "http://dashboard.internal:8080",
			"log.level":        "debug",
		},
		ints: map[string]int{
			"backend.timeout_seconds": 10,
			"server.port":             9999,
		},
	}

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Backend.BaseURL != "http://dashboard.internal:8080" {
		t.Errorf("Backend.BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.TimeoutSeconds != 10 {
		t.Errorf("Backend.TimeoutSeconds = %d, want 10", cfg.Backend.TimeoutSeconds)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
}

// TestEnvOverride verifies environment variables win over backend values.
func TestEnvOverride(t *testing.T) {
	clearEnv(t)

	b := mapBackend{
		strings: map[string]string{"backend.base_url": "http://from-file"},
		ints:    map[string]int{"backend.max_retries": 5},
	}

	t.Setenv("QABOARD_BACKEND_BASE_URL", "http://from-env")
	t.Setenv("QABOARD_BACKEND_MAX_RETRIES", "0")

	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Backend.BaseURL != "http://from-env" {
		t.Errorf("Backend.BaseURL = %q, want %q", cfg.Backend.BaseURL, "http://from-env")
	}
	if cfg.Backend.MaxRetries != 0 {
		t.Errorf("Backend.MaxRetries = %d, want 0", cfg.Backend.MaxRetries)
	}
}

// TestMissingBaseURL verifies a clear error when no base URL is configured.
func TestMissingBaseURL(t *testing.T) {
	clearEnv(t)

	_, err := loadWith(mapBackend{})
	if err == nil {
		t.Fatal("expected error for missing base URL, got nil")
	}
	if !strings.Contains(err.Error(), "missing required config") {
		t.Errorf("error = %q, want it to mention missing required config", err)
	}
	if !strings.Contains(err.Error(), "QABOARD_BACKEND_BASE_URL") {
		t.Errorf("error = %q, want it to name the env var", err)
	}
}

// TestShowAllCoversEveryKey keeps the display listing in sync with the specs.
func TestShowAllCoversEveryKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("QABOARD_BACKEND_BASE_URL", "http://dashboard.test")

	cfg, err := loadWith(mapBackend{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	infos := ShowAll(cfg)
	if len(infos) != len(specs) {
		t.Fatalf("ShowAll returned %d keys, want %d", len(infos), len(specs))
	}
	for _, info := range infos {
		if info.Key == "backend.base_url" && info.Value != "http://dashboard.test" {
			t.Errorf("backend.base_url shown as %q", info.Value)
		}
	}
}

// TestSetKeyUnknown rejects keys outside the spec table.
func TestSetKeyUnknown(t *testing.T) {
	if err := SetKey("no.such.key", "x"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestValidKeys(t *testing.T) {
	keys := ValidKeys()
	if len(keys) != len(specs) {
		t.Fatalf("ValidKeys returned %d keys, want %d", len(keys), len(specs))
	}
	found := false
	for _, k := range keys {
		if k == "backend.base_url" {
			found = true
		}
	}
	if !found {
		t.Error("ValidKeys is missing backend.base_url")
	}
}
