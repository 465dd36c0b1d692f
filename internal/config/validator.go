package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "discussion.fixed_turns")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidBackends returns the list of valid provider backends
func ValidBackends() []string {
	return []string{"gemini", "openai"}
}

// ValidDiscussionModes returns the list of valid discussion modes
func ValidDiscussionModes() []string {
	return []string{"fixed", "ai-driven"}
}

// ValidThinkingLevels returns the list of valid thinking levels
func ValidThinkingLevels() []string {
	return []string{"LOW", "HIGH"}
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateProvider()...)
	errors = append(errors, c.validateAgents()...)
	errors = append(errors, c.validateDiscussion()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateProvider() []ValidationError {
	var errors []ValidationError

	if c.Provider.Backend != "" && !slices.Contains(ValidBackends(), c.Provider.Backend) {
		errors = append(errors, ValidationError{
			Field:   "provider.backend",
			Value:   c.Provider.Backend,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidBackends(), ", ")),
		})
	}

	if c.Provider.Backend == "openai" && c.Provider.OpenAI.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "provider.openai.base_url",
			Value:   c.Provider.OpenAI.BaseURL,
			Message: "must not be empty when the openai backend is selected",
		})
	}

	return errors
}

func (c *Config) validateAgents() []ValidationError {
	var errors []ValidationError

	for _, agent := range []struct {
		name string
		cfg  AgentConfig
	}{
		{"agents.cognito", c.Agents.Cognito},
		{"agents.muse", c.Agents.Muse},
	} {
		if agent.cfg.Model == "" {
			errors = append(errors, ValidationError{
				Field:   agent.name + ".model",
				Value:   agent.cfg.Model,
				Message: "must not be empty",
			})
		}
		if agent.cfg.ThinkingBudget < -1 {
			errors = append(errors, ValidationError{
				Field:   agent.name + ".thinking_budget",
				Value:   agent.cfg.ThinkingBudget,
				Message: "must be -1 (auto), 0 (off), or a positive token count",
			})
		}
		if agent.cfg.ThinkingLevel != "" && !slices.Contains(ValidThinkingLevels(), agent.cfg.ThinkingLevel) {
			errors = append(errors, ValidationError{
				Field:   agent.name + ".thinking_level",
				Value:   agent.cfg.ThinkingLevel,
				Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidThinkingLevels(), ", ")),
			})
		}
	}

	return errors
}

func (c *Config) validateDiscussion() []ValidationError {
	var errors []ValidationError

	if c.Discussion.Mode != "" && !slices.Contains(ValidDiscussionModes(), c.Discussion.Mode) {
		errors = append(errors, ValidationError{
			Field:   "discussion.mode",
			Value:   c.Discussion.Mode,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidDiscussionModes(), ", ")),
		})
	}

	if c.Discussion.FixedTurns < 1 {
		errors = append(errors, ValidationError{
			Field:   "discussion.fixed_turns",
			Value:   c.Discussion.FixedTurns,
			Message: "must be at least 1",
		})
	}

	if c.Discussion.MaxAutoRetries < 0 {
		errors = append(errors, ValidationError{
			Field:   "discussion.max_auto_retries",
			Value:   c.Discussion.MaxAutoRetries,
			Message: "must be non-negative",
		})
	}

	if c.Discussion.RetryDelayBaseMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "discussion.retry_delay_base_ms",
			Value:   c.Discussion.RetryDelayBaseMs,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB < 1 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be at least 1",
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
