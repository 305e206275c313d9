package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"intellibot/internal/domain"
)

// BackendConfig holds connection details for the hosted search/completion backend.
// The API token is resolved from the environment, never stored in the file.
type BackendConfig struct {
	BaseURL     string `yaml:"base_url"`
	Database    string `yaml:"database"`
	Schema      string `yaml:"schema"`
	TokenEnv    string `yaml:"token_env"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// Timeout returns the configured HTTP client timeout.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSecs) * time.Second
}

// ChatConfig holds the initial values of the session-scoped chat settings.
type ChatConfig struct {
	Models          []string `yaml:"models"`
	DefaultModel    string   `yaml:"default_model"`
	Topics          []string `yaml:"topics"`
	RetrievedChunks int      `yaml:"retrieved_chunks"`
	HistoryTurns    int      `yaml:"history_turns"`
	UseChatHistory  *bool    `yaml:"use_chat_history,omitempty"`
	Debug           bool     `yaml:"debug"`
	DarkMode        bool     `yaml:"dark_mode"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Backend BackendConfig `yaml:"backend"`
	Chat    ChatConfig    `yaml:"chat"`
}

// Credentials resolves the API token from the configured environment variable.
func (c *AppConfig) Credentials() (string, error) {
	token := os.Getenv(c.Backend.TokenEnv)
	if token == "" {
		return "", domain.ErrMissingCredentials
	}
	return token, nil
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/intellibot/config.yaml.
// If neither exists, it writes defaults to ~/.config/intellibot/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "intellibot", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Backend.TokenEnv == "" {
		cfg.Backend.TokenEnv = "INTELLIBOT_API_TOKEN"
	}
	if cfg.Backend.TimeoutSecs == 0 {
		cfg.Backend.TimeoutSecs = 60
	}
	if len(cfg.Chat.Models) == 0 {
		cfg.Chat.Models = []string{"mistral-large2", "llama3.1-70b", "llama3.1-8b"}
	}
	if cfg.Chat.DefaultModel == "" {
		cfg.Chat.DefaultModel = cfg.Chat.Models[0]
	}
	if len(cfg.Chat.Topics) == 0 {
		cfg.Chat.Topics = []string{
			"All Topics", "Database Concepts", "AWS Framework", "Python for Beginners",
			"Azure", "PostgreSQL", "Kubernetes", "Pro Git", "OWASP",
		}
	}
	if cfg.Chat.RetrievedChunks == 0 {
		cfg.Chat.RetrievedChunks = 5
	}
	if cfg.Chat.HistoryTurns == 0 {
		cfg.Chat.HistoryTurns = 5
	}
	if cfg.Chat.UseChatHistory == nil {
		useHistory := true
		cfg.Chat.UseChatHistory = &useHistory
	}
}
