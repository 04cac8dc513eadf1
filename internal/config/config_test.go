package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// tempConfigFile points viper at a writable config file so secret writes have
// somewhere durable to land.
func tempConfigFile(t *testing.T) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "localpages.yaml")
	content := "wordpress:\n  base_url: https://example.com\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	viper.SetConfigFile(cfgPath)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("read config: %v", err)
	}
	return cfgPath
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "localpages.yaml")
	content := "wordpress:\n  base_url: https://example.com\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.API.MaxTokens != 4096 {
		t.Errorf("Expected default max_tokens 4096, got %d", cfg.API.MaxTokens)
	}
	if cfg.API.Timeout != 300*time.Second {
		t.Errorf("Expected default timeout 300s, got %s", cfg.API.Timeout)
	}
	if cfg.API.RequestDelay != 2*time.Second {
		t.Errorf("Expected default request delay 2s, got %s", cfg.API.RequestDelay)
	}
	if cfg.Site.FoundedYear != 2012 {
		t.Errorf("Expected default founded year 2012, got %d", cfg.Site.FoundedYear)
	}
	if cfg.WordPress.BaseURL != "https://example.com" {
		t.Errorf("Config file value not applied, got %q", cfg.WordPress.BaseURL)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LOCAL_PAGES_API_KEY", "test-key")
	t.Setenv("WORDPRESS_APP_PASSWORD", "app pass")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Key != "test-key" {
		t.Errorf("Expected API key from env, got %q", cfg.API.Key)
	}
	if cfg.WordPress.AppPassword != "app pass" {
		t.Errorf("Expected app password from env, got %q", cfg.WordPress.AppPassword)
	}
}

func TestSecretStoreNamespacing(t *testing.T) {
	tempConfigFile(t)
	prod := NewViperSecretStore(false)
	test := NewViperSecretStore(true)

	if err := prod.Set(SecretAPIKey, "prod-secret"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := test.Set(SecretAPIKey, "test-secret"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := prod.Get(SecretAPIKey)
	if err != nil || got != "prod-secret" {
		t.Errorf("Production secret clobbered by test namespace: %q (err %v)", got, err)
	}
	got, err = test.Get(SecretAPIKey)
	if err != nil || got != "test-secret" {
		t.Errorf("Unexpected test-namespace secret %q (err %v)", got, err)
	}

	if err := test.Delete(SecretAPIKey); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := test.Get(SecretAPIKey); err == nil {
		t.Error("Expected an error for a deleted secret")
	}
	if got, _ := prod.Get(SecretAPIKey); got != "prod-secret" {
		t.Error("Deleting a test secret must not touch the production value")
	}
}

func TestSecretSetPersistsToConfigFile(t *testing.T) {
	cfgPath := tempConfigFile(t)
	store := NewViperSecretStore(false)

	if err := store.Set(SecretModel, "claude-sonnet-4-20250514"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read config file: %v", err)
	}
	if !strings.Contains(string(data), "claude-sonnet-4-20250514") {
		t.Errorf("Stored model missing from config file:\n%s", data)
	}

	// A fresh viper load of the written file sees the value, so the next
	// process picks up the selection.
	fresh := viper.New()
	fresh.SetConfigFile(cfgPath)
	if err := fresh.ReadInConfig(); err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if got := fresh.GetString("secrets.model"); got != "claude-sonnet-4-20250514" {
		t.Errorf("Reloaded config returned %q for the stored model", got)
	}
}

func TestTestModeSecretsStayLocal(t *testing.T) {
	cfgPath := tempConfigFile(t)
	store := NewViperSecretStore(true)

	if err := store.Set(SecretModel, "scratch-model"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read config file: %v", err)
	}
	if strings.Contains(string(data), "scratch-model") {
		t.Error("Test-mode secret was written to the config file")
	}
}
