package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete Duet configuration
type Config struct {
	Provider   ProviderConfig   `mapstructure:"provider"`
	Agents     AgentsConfig     `mapstructure:"agents"`
	Discussion DiscussionConfig `mapstructure:"discussion"`
	TUI        TUIConfig        `mapstructure:"tui"`
	Session    SessionConfig    `mapstructure:"session"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ProviderConfig selects and configures the AI backend
type ProviderConfig struct {
	// Backend is the API family to use: "gemini" or "openai"
	Backend string       `mapstructure:"backend"`
	Gemini  GeminiConfig `mapstructure:"gemini"`
	OpenAI  OpenAIConfig `mapstructure:"openai"`
}

// GeminiConfig configures the Gemini backend
type GeminiConfig struct {
	// APIKey authenticates against the Gemini API. Usually supplied via
	// the DUET_PROVIDER_GEMINI_API_KEY environment variable rather than
	// the config file.
	APIKey string `mapstructure:"api_key"`
	// Endpoint overrides the default Google API base URL (e.g. for a
	// proxy). Empty means the official endpoint.
	Endpoint string `mapstructure:"endpoint"`
}

// OpenAIConfig configures an OpenAI-compatible backend
type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	// BaseURL is the API root, default "https://api.openai.com/v1".
	// Point it at any compatible server (Ollama, vLLM, etc.).
	BaseURL string `mapstructure:"base_url"`
}

// AgentsConfig holds the per-agent model settings
type AgentsConfig struct {
	Cognito AgentConfig `mapstructure:"cognito"`
	Muse    AgentConfig `mapstructure:"muse"`
}

// AgentConfig configures one of the two agents
type AgentConfig struct {
	// Model is the model identifier passed to the backend
	Model string `mapstructure:"model"`
	// ThinkingBudget is the token budget for model reasoning.
	// -1 means automatic, 0 disables thinking.
	ThinkingBudget int `mapstructure:"thinking_budget"`
	// ThinkingLevel is used by models that take a level instead of a
	// budget: "LOW" or "HIGH"
	ThinkingLevel string `mapstructure:"thinking_level"`
}

// DiscussionConfig controls the discussion loop
type DiscussionConfig struct {
	// Mode is "fixed" or "ai-driven"
	Mode string `mapstructure:"mode"`
	// FixedTurns is the number of turn pairs in fixed mode (min 1)
	FixedTurns int `mapstructure:"fixed_turns"`
	// MaxAutoRetries is how many times a failed step is retried before
	// being parked for manual retry
	MaxAutoRetries int `mapstructure:"max_auto_retries"`
	// RetryDelayBaseMs is the base backoff in milliseconds; attempt n
	// waits n times this long
	RetryDelayBaseMs int `mapstructure:"retry_delay_base_ms"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// ShowNotepad opens the notepad pane on startup
	ShowNotepad bool `mapstructure:"show_notepad"`
	// ShowThoughts displays model reasoning summaries in the transcript
	ShowThoughts bool `mapstructure:"show_thoughts"`
	// Theme is the color theme for the TUI (default: "default")
	Theme string `mapstructure:"theme"`
}

// SessionConfig controls where transcripts and notepads are persisted
type SessionConfig struct {
	// Dir is the session storage directory. Empty means <config dir>/sessions.
	Dir string `mapstructure:"dir"`
	// Autosave persists the transcript and notepad after every turn
	Autosave bool `mapstructure:"autosave"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
}

// RetryDelayBase returns the backoff base as a time.Duration
func (d *DiscussionConfig) RetryDelayBase() time.Duration {
	return time.Duration(d.RetryDelayBaseMs) * time.Millisecond
}

// ResolveSessionDir returns the session storage directory, defaulting to
// a "sessions" directory under the config directory.
func (s *SessionConfig) ResolveSessionDir() string {
	if s.Dir == "" {
		return filepath.Join(ConfigDir(), "sessions")
	}
	if home, err := os.UserHomeDir(); err == nil {
		if s.Dir == "~" {
			return home
		}
		if len(s.Dir) > 1 && s.Dir[:2] == "~/" {
			return filepath.Join(home, s.Dir[2:])
		}
	}
	return s.Dir
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			Backend: "gemini",
			Gemini: GeminiConfig{
				APIKey:   "",
				Endpoint: "",
			},
			OpenAI: OpenAIConfig{
				APIKey:  "",
				BaseURL: "https://api.openai.com/v1",
			},
		},
		Agents: AgentsConfig{
			Cognito: AgentConfig{
				Model:          "gemini-2.5-pro",
				ThinkingBudget: -1, // automatic
				ThinkingLevel:  "HIGH",
			},
			Muse: AgentConfig{
				Model:          "gemini-2.5-pro",
				ThinkingBudget: -1,
				ThinkingLevel:  "HIGH",
			},
		},
		Discussion: DiscussionConfig{
			Mode:             "fixed",
			FixedTurns:       2,
			MaxAutoRetries:   2,
			RetryDelayBaseMs: 1000,
		},
		TUI: TUIConfig{
			ShowNotepad:  true,
			ShowThoughts: false,
			Theme:        "default",
		},
		Session: SessionConfig{
			Dir:      "",
			Autosave: true,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Provider defaults
	viper.SetDefault("provider.backend", defaults.Provider.Backend)
	viper.SetDefault("provider.gemini.api_key", defaults.Provider.Gemini.APIKey)
	viper.SetDefault("provider.gemini.endpoint", defaults.Provider.Gemini.Endpoint)
	viper.SetDefault("provider.openai.api_key", defaults.Provider.OpenAI.APIKey)
	viper.SetDefault("provider.openai.base_url", defaults.Provider.OpenAI.BaseURL)

	// Agent defaults
	viper.SetDefault("agents.cognito.model", defaults.Agents.Cognito.Model)
	viper.SetDefault("agents.cognito.thinking_budget", defaults.Agents.Cognito.ThinkingBudget)
	viper.SetDefault("agents.cognito.thinking_level", defaults.Agents.Cognito.ThinkingLevel)
	viper.SetDefault("agents.muse.model", defaults.Agents.Muse.Model)
	viper.SetDefault("agents.muse.thinking_budget", defaults.Agents.Muse.ThinkingBudget)
	viper.SetDefault("agents.muse.thinking_level", defaults.Agents.Muse.ThinkingLevel)

	// Discussion defaults
	viper.SetDefault("discussion.mode", defaults.Discussion.Mode)
	viper.SetDefault("discussion.fixed_turns", defaults.Discussion.FixedTurns)
	viper.SetDefault("discussion.max_auto_retries", defaults.Discussion.MaxAutoRetries)
	viper.SetDefault("discussion.retry_delay_base_ms", defaults.Discussion.RetryDelayBaseMs)

	// TUI defaults
	viper.SetDefault("tui.show_notepad", defaults.TUI.ShowNotepad)
	viper.SetDefault("tui.show_thoughts", defaults.TUI.ShowThoughts)
	viper.SetDefault("tui.theme", defaults.TUI.Theme)

	// Session defaults
	viper.SetDefault("session.dir", defaults.Session.Dir)
	viper.SetDefault("session.autosave", defaults.Session.Autosave)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "duet")
	}
	// Fall back to ~/.config/duet
	home, err := os.UserHomeDir()
	if err != nil {
		return ".duet"
	}
	return filepath.Join(home, ".config", "duet")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LogFile returns the path to the debug log file
func LogFile() string {
	return filepath.Join(ConfigDir(), "duet.log")
}
