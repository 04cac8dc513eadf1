package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

// Secret keys managed through the SecretStore. Values are opaque to the core.
const (
	SecretAPIKey     = "api_key"
	SecretModel      = "model"
	SecretWebhookURL = "webhook_url"
)

// SecretStore abstracts storage of API credentials and other opaque secrets.
// Implementations own encryption at rest; the core only gets and sets.
type SecretStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// ViperSecretStore stores secrets through viper's key/value surface and
// writes every change back to the config file so stored values survive the
// process. Test mode namespaces every key under "test." and keeps writes
// process-local so test runs never read or clobber production values.
type ViperSecretStore struct {
	mu       sync.Mutex
	testMode bool
}

// NewViperSecretStore returns a secret store. When testMode is true all keys
// are namespaced separately from production ones.
func NewViperSecretStore(testMode bool) *ViperSecretStore {
	return &ViperSecretStore{testMode: testMode}
}

func (s *ViperSecretStore) namespaced(key string) string {
	if s.testMode {
		return "secrets.test." + key
	}
	return "secrets." + key
}

// Get returns the stored secret, or an error when the key is unset.
func (s *ViperSecretStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := viper.GetString(s.namespaced(key))
	if v == "" {
		return "", fmt.Errorf("secret %q is not configured", key)
	}
	return v, nil
}

// Set stores a secret value and persists it.
func (s *ViperSecretStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	viper.Set(s.namespaced(key), value)
	if err := s.persist(); err != nil {
		return fmt.Errorf("failed to persist secret %q: %w", key, err)
	}
	return nil
}

// Delete removes a secret value and persists the removal.
func (s *ViperSecretStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	viper.Set(s.namespaced(key), "")
	if err := s.persist(); err != nil {
		return fmt.Errorf("failed to persist deletion of secret %q: %w", key, err)
	}
	return nil
}

// persist writes the current settings back to the config file. When no config
// file exists yet, one is created at the first configured search path.
// Test-mode secrets stay in memory only.
func (s *ViperSecretStore) persist() error {
	if s.testMode {
		return nil
	}
	if err := viper.WriteConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return viper.SafeWriteConfig()
		}
		return err
	}
	return nil
}
