package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name in the OS keychain
	KeyringService = "TestImpact"

	// KeyringAPIKeyItem is the key for the oracle API key
	KeyringAPIKeyItem = "oracle-api-key"

	// KeyringGitHubTokenItem is the key for the GitHub token
	KeyringGitHubTokenItem = "github-token"
)

// KeyringManager handles secure credential storage in the OS keychain
type KeyringManager struct {
	logger *slog.Logger
}

// NewKeyringManager creates a new keyring manager
func NewKeyringManager() *KeyringManager {
	return &KeyringManager{
		logger: slog.Default().With("component", "keyring"),
	}
}

// SaveAPIKey stores the oracle API key securely in the OS keychain.
// macOS: Keychain Access, Windows: Credential Manager, Linux: Secret Service.
func (km *KeyringManager) SaveAPIKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("api key cannot be empty")
	}

	if err := keyring.Set(KeyringService, KeyringAPIKeyItem, apiKey); err != nil {
		km.logger.Error("failed to save API key to keychain", "error", err)
		return fmt.Errorf("failed to save to OS keychain: %w", err)
	}

	km.logger.Debug("API key saved to OS keychain")
	return nil
}

// GetAPIKey retrieves the oracle API key from the OS keychain
func (km *KeyringManager) GetAPIKey() (string, error) {
	key, err := keyring.Get(KeyringService, KeyringAPIKeyItem)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to read from OS keychain: %w", err)
	}
	return key, nil
}

// DeleteAPIKey removes the oracle API key from the OS keychain
func (km *KeyringManager) DeleteAPIKey() error {
	err := keyring.Delete(KeyringService, KeyringAPIKeyItem)
	if err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("failed to delete from OS keychain: %w", err)
	}
	return nil
}

// SaveGitHubToken stores the GitHub token securely in the OS keychain
func (km *KeyringManager) SaveGitHubToken(token string) error {
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}
	if err := keyring.Set(KeyringService, KeyringGitHubTokenItem, token); err != nil {
		return fmt.Errorf("failed to save to OS keychain: %w", err)
	}
	return nil
}

// GetGitHubToken retrieves the GitHub token from the OS keychain
func (km *KeyringManager) GetGitHubToken() (string, error) {
	token, err := keyring.Get(KeyringService, KeyringGitHubTokenItem)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to read from OS keychain: %w", err)
	}
	return token, nil
}

// IsAvailable probes whether the OS keychain works on this system
// (headless Linux without libsecret does not)
func (km *KeyringManager) IsAvailable() bool {
	probe := "timpact-keyring-probe"
	if err := keyring.Set(KeyringService, probe, "ok"); err != nil {
		return false
	}
	keyring.Delete(KeyringService, probe)
	return true
}

// APIKeySource reports where the oracle key currently comes from
type APIKeySource struct {
	Source      string // "environment", "keychain", "config_file", "none"
	Recommended string
}

// GetAPIKeySource determines the active key source for display
func (km *KeyringManager) GetAPIKeySource(cfg *Config) APIKeySource {
	if os.Getenv("OPENAI_API_KEY") != "" || os.Getenv("GEMINI_API_KEY") != "" {
		return APIKeySource{Source: "environment", Recommended: "environment variable (CI/CD)"}
	}
	if km.IsAvailable() {
		if key, err := km.GetAPIKey(); err == nil && key != "" {
			return APIKeySource{Source: "keychain", Recommended: "OS keychain (secure)"}
		}
	}
	if cfg != nil && (cfg.Oracle.OpenAIKey != "" || cfg.Oracle.GeminiKey != "") {
		return APIKeySource{Source: "config_file", Recommended: "config file (consider keychain)"}
	}
	return APIKeySource{Source: "none", Recommended: "run 'timpact configure'"}
}
