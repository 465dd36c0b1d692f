package config

import (
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Fatalf("Default() failed validation: %v", ValidationErrors(errs))
	}
}

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	if cfg.Provider.Backend != "gemini" {
		t.Errorf("Provider.Backend = %q, want gemini", cfg.Provider.Backend)
	}
	if cfg.Discussion.Mode != "fixed" {
		t.Errorf("Discussion.Mode = %q, want fixed", cfg.Discussion.Mode)
	}
	if cfg.Discussion.FixedTurns != 2 {
		t.Errorf("Discussion.FixedTurns = %d, want 2", cfg.Discussion.FixedTurns)
	}
	if cfg.Discussion.MaxAutoRetries != 2 {
		t.Errorf("Discussion.MaxAutoRetries = %d, want 2", cfg.Discussion.MaxAutoRetries)
	}
	if cfg.Agents.Cognito.ThinkingBudget != -1 {
		t.Errorf("Agents.Cognito.ThinkingBudget = %d, want -1", cfg.Agents.Cognito.ThinkingBudget)
	}
}

func TestValidateBackend(t *testing.T) {
	cfg := Default()
	cfg.Provider.Backend = "anthropic"

	errs := cfg.Validate()
	if len(errs) != 1 {
		t.Fatalf("Validate() returned %d errors, want 1: %v", len(errs), errs)
	}
	if errs[0].Field != "provider.backend" {
		t.Errorf("Field = %q", errs[0].Field)
	}
}

func TestValidateOpenAIBaseURL(t *testing.T) {
	cfg := Default()
	cfg.Provider.Backend = "openai"
	cfg.Provider.OpenAI.BaseURL = ""

	errs := cfg.Validate()
	if len(errs) != 1 || errs[0].Field != "provider.openai.base_url" {
		t.Errorf("Validate() = %v, want base_url error", errs)
	}
}

func TestValidateDiscussion(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad mode", func(c *Config) { c.Discussion.Mode = "forever" }, "discussion.mode"},
		{"zero turns", func(c *Config) { c.Discussion.FixedTurns = 0 }, "discussion.fixed_turns"},
		{"negative retries", func(c *Config) { c.Discussion.MaxAutoRetries = -1 }, "discussion.max_auto_retries"},
		{"negative delay", func(c *Config) { c.Discussion.RetryDelayBaseMs = -5 }, "discussion.retry_delay_base_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()
			if len(errs) != 1 {
				t.Fatalf("Validate() returned %d errors, want 1: %v", len(errs), errs)
			}
			if errs[0].Field != tt.field {
				t.Errorf("Field = %q, want %q", errs[0].Field, tt.field)
			}
		})
	}
}

func TestValidateAgents(t *testing.T) {
	cfg := Default()
	cfg.Agents.Muse.Model = ""
	cfg.Agents.Muse.ThinkingBudget = -2
	cfg.Agents.Cognito.ThinkingLevel = "MEDIUM"

	errs := cfg.Validate()
	if len(errs) != 3 {
		t.Fatalf("Validate() returned %d errors, want 3: %v", len(errs), errs)
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "a.b", Value: 1, Message: "bad"},
		{Field: "c.d", Value: "x", Message: "worse"},
	}
	msg := errs.Error()
	if !strings.Contains(msg, "2 validation errors") {
		t.Errorf("Error() = %q", msg)
	}
	if !strings.Contains(msg, "a.b: bad (got: 1)") {
		t.Errorf("Error() = %q", msg)
	}
}

func TestResolveSessionDirDefault(t *testing.T) {
	s := SessionConfig{}
	got := s.ResolveSessionDir()
	if !strings.HasSuffix(got, "sessions") {
		t.Errorf("ResolveSessionDir() = %q, want sessions suffix", got)
	}
}
