package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration settings
type Config struct {
	// Chunking settings for large diffs
	Chunking ChunkingConfig `yaml:"chunking" mapstructure:"chunking"`

	// Risk classification weights
	Risk RiskConfig `yaml:"risk" mapstructure:"risk"`

	// Oracle (external classifier) configuration
	Oracle OracleConfig `yaml:"oracle" mapstructure:"oracle"`

	// GitHub configuration for the PR diff source
	GitHub GitHubConfig `yaml:"github" mapstructure:"github"`

	// Report settings
	Report ReportConfig `yaml:"report" mapstructure:"report"`
}

// ChunkingConfig bounds diff chunk sizes. File sections are never
// split mid-section regardless of these limits.
type ChunkingConfig struct {
	MaxLines           int `yaml:"max_lines" mapstructure:"max_lines"`                       // Max lines per chunk
	LargeDiffThreshold int `yaml:"large_diff_threshold" mapstructure:"large_diff_threshold"` // Above this, analysis runs chunked
}

// RiskConfig holds the keyword tie-break weights. These are tuned
// empirically, not proven optimal, so they stay configurable.
type RiskConfig struct {
	PathWeight       int `yaml:"path_weight" mapstructure:"path_weight"`             // Multiplier for keyword hits in the file path
	CategoryBonus    int `yaml:"category_bonus" mapstructure:"category_bonus"`       // Added to critical score for BUSINESS_RULE/API_CONTRACT
	EscalationMargin int `yaml:"escalation_margin" mapstructure:"escalation_margin"` // |critical-nonCritical| at or below this asks the oracle
}

// OracleConfig configures the external fallback classifier.
type OracleConfig struct {
	Provider       string        `yaml:"provider" mapstructure:"provider"` // "openai", "gemini", or "none"
	OpenAIKey      string        `yaml:"openai_key" mapstructure:"openai_key"`
	OpenAIModel    string        `yaml:"openai_model" mapstructure:"openai_model"`
	GeminiKey      string        `yaml:"gemini_key" mapstructure:"gemini_key"`
	GeminiModel    string        `yaml:"gemini_model" mapstructure:"gemini_model"`
	UseKeychain    bool          `yaml:"use_keychain" mapstructure:"use_keychain"` // Prefer keychain over config file
	MaxAttempts    int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	BaseDelay      time.Duration `yaml:"base_delay" mapstructure:"base_delay"`
	MaxDelay       time.Duration `yaml:"max_delay" mapstructure:"max_delay"`
	CallTimeout    time.Duration `yaml:"call_timeout" mapstructure:"call_timeout"`
	RequestsPerMin int           `yaml:"requests_per_min" mapstructure:"requests_per_min"`
}

type GitHubConfig struct {
	Token string `yaml:"token" mapstructure:"token"`
	Owner string `yaml:"owner" mapstructure:"owner"`
	Repo  string `yaml:"repo" mapstructure:"repo"`
}

type ReportConfig struct {
	OutputPath string `yaml:"output_path" mapstructure:"output_path"` // Empty = stdout
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			MaxLines:           500,
			LargeDiffThreshold: 500,
		},
		Risk: RiskConfig{
			PathWeight:       2,
			CategoryBonus:    2,
			EscalationMargin: 2,
		},
		Oracle: OracleConfig{
			Provider:       "none",
			OpenAIModel:    "gpt-4o-mini",
			GeminiModel:    "gemini-2.0-flash",
			MaxAttempts:    3,
			BaseDelay:      2 * time.Second,
			MaxDelay:       30 * time.Second,
			CallTimeout:    10 * time.Second,
			RequestsPerMin: 60,
		},
		Report: ReportConfig{},
	}
}

// Load loads configuration from file, environment, and keychain.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("chunking", cfg.Chunking)
	v.SetDefault("risk", cfg.Risk)
	v.SetDefault("oracle", cfg.Oracle)
	v.SetDefault("github", cfg.GitHub)
	v.SetDefault("report", cfg.Report)

	// Environment overrides are applied explicitly in applyEnvOverrides;
	// viper only handles the file layer here.
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".timpact")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".timpact"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// Save writes the configuration as YAML. path == "" writes to
// ~/.timpact/config.yaml, creating the directory if needed.
func Save(cfg *Config, path string) error {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".timpact", "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// loadEnvFiles loads .env files in order of precedence
func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".timpact", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies environment variable overrides to config.
// Precedence: 1. Env var (highest) 2. Keychain 3. Config file (lowest)
func applyEnvOverrides(cfg *Config) {
	km := NewKeyringManager()

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	} else if cfg.GitHub.Token == "" {
		if keychainToken, err := km.GetGitHubToken(); err == nil && keychainToken != "" {
			cfg.GitHub.Token = keychainToken
		}
	}

	if provider := os.Getenv("TIMPACT_ORACLE_PROVIDER"); provider != "" {
		cfg.Oracle.Provider = provider
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Oracle.OpenAIKey = key
	} else if cfg.Oracle.OpenAIKey == "" && cfg.Oracle.Provider == "openai" {
		if keychainKey, err := km.GetAPIKey(); err == nil && keychainKey != "" {
			cfg.Oracle.OpenAIKey = keychainKey
		}
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		cfg.Oracle.OpenAIModel = model
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.Oracle.GeminiKey = key
	} else if cfg.Oracle.GeminiKey == "" && cfg.Oracle.Provider == "gemini" {
		if keychainKey, err := km.GetAPIKey(); err == nil && keychainKey != "" {
			cfg.Oracle.GeminiKey = keychainKey
		}
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.Oracle.GeminiModel = model
	}

	if maxLines := os.Getenv("TIMPACT_CHUNK_MAX_LINES"); maxLines != "" {
		if n, err := strconv.Atoi(maxLines); err == nil && n > 0 {
			cfg.Chunking.MaxLines = n
		}
	}
	if threshold := os.Getenv("TIMPACT_LARGE_DIFF_THRESHOLD"); threshold != "" {
		if n, err := strconv.Atoi(threshold); err == nil && n > 0 {
			cfg.Chunking.LargeDiffThreshold = n
		}
	}
}

// MaskAPIKey masks an API key for display (sk-...abc4)
func MaskAPIKey(key string) string {
	if len(key) < 8 {
		return "(not set)"
	}
	return key[:3] + "..." + key[len(key)-4:]
}
